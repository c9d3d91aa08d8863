package config

import "fmt"

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that is surfaced to the user but
	// does not block the run.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Field names the offending setting (env var or field); Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Field    string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where convenient.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Field, i.Message)
}

// Validate performs static checks over the Config and returns a list of
// issues. Any error-severity issue must abort the run before a single write
// is attempted; warnings are informational.
func (c Config) Validate() []Issue {
	var issues []Issue

	errf := func(field, format string, args ...any) {
		issues = append(issues, Issue{Severity: SeverityError, Field: field, Message: fmt.Sprintf(format, args...)})
	}
	warnf := func(field, format string, args ...any) {
		issues = append(issues, Issue{Severity: SeverityWarning, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.AdminUserID == "" {
		errf("ADMIN_USER_ID", "admin user id is required; every record is attributed to it")
	}

	switch c.Backend {
	case BackendPostgREST:
		if c.SupabaseURL == "" {
			errf("SUPABASE_URL", "required for the %s backend", BackendPostgREST)
		}
		if c.ServiceRoleKey == "" {
			errf("SUPABASE_SERVICE_ROLE_KEY", "required for the %s backend", BackendPostgREST)
		}
	case BackendPostgres:
		if c.DatabaseDSN == "" {
			errf("DATABASE_URL", "required for the %s backend", BackendPostgres)
		}
	default:
		errf("STORAGE_BACKEND", "unknown backend %q (want %s or %s)", c.Backend, BackendPostgREST, BackendPostgres)
	}

	if c.Customers < 0 {
		errf("SEED_CUSTOMERS", "count must be >= 0, got %d", c.Customers)
	}
	if c.Employees < 0 {
		errf("SEED_EMPLOYEES", "count must be >= 0, got %d", c.Employees)
	}
	if c.Sales < 0 {
		errf("SEED_SALES", "count must be >= 0, got %d", c.Sales)
	}

	if (c.KaggleUsername == "") != (c.KaggleKey == "") {
		warnf("KAGGLE_USERNAME", "only one of KAGGLE_USERNAME/KAGGLE_KEY is set; download will be anonymous")
	}

	return issues
}

// HasErrors reports whether any issue carries error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}
