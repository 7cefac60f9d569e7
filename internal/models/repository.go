package models

type (
	Repository struct {
		FullName      string `json:"full_name"`
		Name          string `json:"name"`
		Owner         string `json:"owner"`
		Description   string `json:"description"`
		URL           string `json:"url"`
		DefaultBranch string `json:"default_branch"`
		Language      string `json:"language"`
		Visibility    string `json:"visibility"`
		Private       bool   `json:"private"`
		Stars         int    `json:"stars"`
		Forks         int    `json:"forks"`
		OpenIssues    int    `json:"open_issues"`
		UpdatedAt     string `json:"updated_at"`
	}

	Branch struct {
		Name      string `json:"name"`
		SHA       string `json:"sha"`
		Protected bool   `json:"protected"`
	}

	RepositoryInfo struct {
		Repository Repository `json:"repository"`
		Branches   []Branch   `json:"branches"`
	}
)
