package models

import (
	"time"

	id "gatehouse/pkg/domain"
)

// Employee is a staff member who may host visits. Records are provisioned
// and maintained by the directory administrator; the lifecycle core only
// reads them, and only active employees are offered as visit targets.
type Employee struct {
	ID        id.EmployeeID `json:"id"`
	FullName  string        `json:"full_name"`
	Email     string        `json:"email"`
	Active    bool          `json:"active"`
	CreatedAt time.Time     `json:"created_at"`
}
