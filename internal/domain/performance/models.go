package performance

import "time"

// Ratings are optional scores in [0, 5].
type Ratings struct {
	OverallRating   *float64 `json:"overallRating,omitempty" validate:"omitempty,gte=0,lte=5"`
	TechnicalSkills *float64 `json:"technicalSkills,omitempty" validate:"omitempty,gte=0,lte=5"`
	Communication   *float64 `json:"communication,omitempty" validate:"omitempty,gte=0,lte=5"`
	Teamwork        *float64 `json:"teamwork,omitempty" validate:"omitempty,gte=0,lte=5"`
	Leadership      *float64 `json:"leadership,omitempty" validate:"omitempty,gte=0,lte=5"`
	Punctuality     *float64 `json:"punctuality,omitempty" validate:"omitempty,gte=0,lte=5"`
	GoalsAchieved   *float64 `json:"goalsAchieved,omitempty" validate:"omitempty,gte=0,lte=5"`
}

type Review struct {
	ID                string    `json:"id"`
	EmployeeID        string    `json:"employeeId"`
	ReviewerID        string    `json:"reviewerId"`
	ReviewPeriodStart time.Time `json:"reviewPeriodStart"`
	ReviewPeriodEnd   time.Time `json:"reviewPeriodEnd"`
	Ratings
	Comments  string    `json:"comments"`
	Feedback  string    `json:"feedback"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewView is a review with names resolved at read time.
type ReviewView struct {
	Review
	EmployeeName string `json:"employeeName,omitempty"`
	Department   string `json:"department,omitempty"`
	Position     string `json:"position,omitempty"`
	ReviewerName string `json:"reviewerName,omitempty"`
}

type Goal struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employeeId"`
	CreatedBy   string     `json:"createdBy"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"targetDate,omitempty"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type GoalView struct {
	Goal
	EmployeeName  string `json:"employeeName,omitempty"`
	Department    string `json:"department,omitempty"`
	CreatedByName string `json:"createdByName,omitempty"`
}

type Feedback struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employeeId"`
	FromEmployeeID string    `json:"fromEmployeeId,omitempty"`
	Type           string    `json:"type"`
	FeedbackText   string    `json:"feedbackText"`
	Rating         *float64  `json:"rating,omitempty"`
	IsAnonymous    bool      `json:"isAnonymous"`
	CreatedAt      time.Time `json:"createdAt"`
}

// FeedbackView never carries author fields for anonymous feedback.
type FeedbackView struct {
	Feedback
	EmployeeName     string `json:"employeeName,omitempty"`
	Department       string `json:"department,omitempty"`
	FromEmployeeName string `json:"fromEmployeeName,omitempty"`
	FromPosition     string `json:"fromPosition,omitempty"`
}

// Stats feeds the dashboard. Pointer fields are role specific.
type Stats struct {
	TotalEmployees *int    `json:"totalEmployees,omitempty"`
	TotalReviews   int     `json:"totalReviews"`
	AvgRating      float64 `json:"avgRating"`
	PendingReviews *int    `json:"pendingReviews,omitempty"`
	TotalGoals     int     `json:"totalGoals"`
	CompletedGoals int     `json:"completedGoals"`
	AvgProgress    float64 `json:"avgProgress"`
	TotalFeedback  *int    `json:"totalFeedback,omitempty"`
}

type ReviewInput struct {
	EmployeeID        string    `json:"employeeId" validate:"required"`
	ReviewPeriodStart time.Time `json:"reviewPeriodStart" validate:"required"`
	ReviewPeriodEnd   time.Time `json:"reviewPeriodEnd" validate:"required"`
	Ratings
	Comments string `json:"comments" validate:"max=5000"`
	Feedback string `json:"feedback" validate:"max=5000"`
	Status   string `json:"status" validate:"omitempty,oneof=draft submitted"`
}

type GoalInput struct {
	EmployeeID  string     `json:"employeeId"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	TargetDate  *time.Time `json:"targetDate"`
	Status      string     `json:"status" validate:"omitempty,oneof=not_started in_progress completed cancelled"`
	Progress    int        `json:"progress"`
}

type FeedbackInput struct {
	EmployeeID   string   `json:"employeeId" validate:"required"`
	Type         string   `json:"type" validate:"required,oneof=peer supervisor subordinate self"`
	FeedbackText string   `json:"feedbackText" validate:"required,max=5000"`
	Rating       *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	IsAnonymous  bool     `json:"isAnonymous"`
}
