package employee

// Employee is the slice of the employee record the engine needs to resolve
// employee codes from the host application.
type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
}
