package tools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

const (
	CreatePullRequest    = "create_pull_request"
	GetRepositoryInfo    = "get_repository_info"
	GetJiraTicketDetails = "get_jira_ticket_details"
	GeneratePRSummary    = "generate_pr_summary"
)

type (
	CreatePullRequestArgs struct {
		Owner               string `json:"owner,omitempty" jsonschema_description:"Repository owner. Defaults to GITHUB_OWNER."`
		Repo                string `json:"repo" jsonschema_description:"Repository name."`
		Title               string `json:"title" jsonschema_description:"Pull request title. A robot suffix is appended once."`
		Head                string `json:"head" jsonschema_description:"Branch with the changes."`
		Base                string `json:"base" jsonschema_description:"Branch to merge into."`
		Body                string `json:"body,omitempty" jsonschema_description:"Optional notes, used as context for the generated description."`
		Draft               bool   `json:"draft,omitempty" jsonschema_description:"Open the pull request as a draft."`
		IncludeDiffAnalysis *bool  `json:"include_diff_analysis,omitempty" jsonschema_description:"Generate the description from the branch diff. Defaults to true."`
	}

	GetRepositoryInfoArgs struct {
		Owner string `json:"owner,omitempty" jsonschema_description:"Repository owner. Defaults to GITHUB_OWNER."`
		Repo  string `json:"repo" jsonschema_description:"Repository name."`
	}

	GetJiraTicketDetailsArgs struct {
		TicketID string `json:"ticketId" jsonschema_description:"Ticket key such as PROJ-123. The accepted grammar follows TICKET_PATTERN."`
	}

	GeneratePRSummaryArgs struct {
		Owner string `json:"owner,omitempty" jsonschema_description:"Repository owner. Defaults to GITHUB_OWNER."`
		Repo  string `json:"repo" jsonschema_description:"Repository name."`
		Head  string `json:"head" jsonschema_description:"Branch with the changes."`
		Base  string `json:"base" jsonschema_description:"Branch to compare against."`
		Title string `json:"title,omitempty" jsonschema_description:"Optional title echoed in the result."`
		Body  string `json:"body,omitempty" jsonschema_description:"Optional notes, used as context for the generated description."`
	}
)

// Tool is one entry of the catalog as advertised to agents.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

var definitions = []struct {
	name        string
	description string
	args        any
}{
	{
		name:        CreatePullRequest,
		description: "Create a GitHub pull request. The description is generated from the branch diff, the referenced JIRA ticket and a language model unless include_diff_analysis is false.",
		args:        &CreatePullRequestArgs{},
	},
	{
		name:        GetRepositoryInfo,
		description: "Get GitHub repository metadata and its branches.",
		args:        &GetRepositoryInfoArgs{},
	},
	{
		name:        GetJiraTicketDetails,
		description: "Get the details of a JIRA ticket, including linked Figma designs.",
		args:        &GetJiraTicketDetailsArgs{},
	},
	{
		name:        GeneratePRSummary,
		description: "Generate a pull request description for two branches without creating the pull request.",
		args:        &GeneratePRSummaryArgs{},
	},
}

// Catalog returns the tool definitions in a stable order.
func Catalog() []Tool {
	tools := make([]Tool, 0, len(definitions))
	for _, d := range definitions {
		tools = append(tools, Tool{
			Name:        d.name,
			Description: d.description,
			InputSchema: schemaFor(d.args),
		})
	}
	return tools
}

func schemaFor(v any) json.RawMessage {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Anonymous:                 true,
	}
	schema := reflector.Reflect(v)
	schema.Version = ""

	raw, err := json.Marshal(schema)
	if err != nil {
		// schemas are reflected from fixed structs
		panic(err)
	}
	return raw
}
