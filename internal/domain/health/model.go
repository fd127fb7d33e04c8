package health

// Status is the coarse application status reported by the health check.
type Status string

const (
	StatusOK Status = "OK"
	StatusKO Status = "KO"
)

// Check is the outcome of a database connectivity probe.
type Check struct {
	Status  Status
	Message string
}
