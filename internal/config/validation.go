package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate reports every misconfiguration at once.
func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	}

	if err := ValidatePort(c.Port, "PORT"); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

var envNames = map[string]string{
	"WorkDir":       "WORK_DIR",
	"DBConnStr":     "DB_CONN_STR",
	"Endpoint":      "BLOB_ENDPOINT",
	"AccessKey":     "BLOB_ACCESS_KEY",
	"SecretKey":     "BLOB_SECRET_KEY",
	"Container":     "CONTAINER_NAME",
	"TunnelAPIURL":  "TUNNEL_API_URL",
	"BatchWorkers":  "BATCH_WORKERS",
	"FailurePolicy": "BATCH_FAILURE_POLICY",
	"RedisURL":      "REDIS_URL",
	"CacheTTL":      "CACHE_TTL",
}

func describe(fe validator.FieldError) string {
	name, ok := envNames[fe.Field()]
	if !ok {
		name = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "required_with":
		return name + " is required when BLOB_ENDPOINT is set"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return name + " must be a URL"
	case "gte", "lte":
		if fe.Field() == "CacheTTL" {
			return name + " must not be negative"
		}
		return fmt.Sprintf("%s must be between 1 and 100", name)
	default:
		return name + " is invalid"
	}
}

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidatePort validates port number
func ValidatePort(port string, name string) error {
	if port == "" {
		return fmt.Errorf("%s is required", name)
	}

	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s %q is not a valid port", name, port)
	}

	return nil
}
