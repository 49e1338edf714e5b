package models

// FacultyAdvisor is the faculty member assigned to a student.
type FacultyAdvisor struct {
	Name        string `json:"name"`
	School      string `json:"school"`
	Designation string `json:"designation"`
	Division    string `json:"division"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Cabin       string `json:"cabin"`
	Intercom    string `json:"intercom"`
}

// Contributor credits a person who worked on the project.
type Contributor struct {
	Name          string `json:"name"`
	Role          string `json:"role"`
	GithubProfile string `json:"github_profile"`
}
