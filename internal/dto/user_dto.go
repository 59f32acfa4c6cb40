package dto

// UserCreateRequest registers a new user account.
type UserCreateRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin teacher student"`
}

// RoleUpdateRequest changes a user's role.
type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required,oneof=admin teacher student"`
}

// DashboardStats aggregates platform-wide counts for the admin dashboard.
type DashboardStats struct {
	TotalUsers       int64 `json:"total_users"`
	TotalTeachers    int64 `json:"total_teachers"`
	TotalStudents    int64 `json:"total_students"`
	TotalExams       int64 `json:"total_exams"`
	ActiveExams      int64 `json:"active_exams"`
	TotalSubmissions int64 `json:"total_submissions"`
}
