package esios

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultBaseURL is the public ESIOS API host.
const DefaultBaseURL = "https://api.esios.ree.es"

// ErrMissingConfiguration reports a required client option left unset.
var ErrMissingConfiguration = errors.New("esios: missing configuration")

// Config holds the client's connection settings.
type Config struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
	Token   string `yaml:"token" validate:"required"`
}

var validate = validator.New()

// Validate fails with ErrMissingConfiguration naming every unset option.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("esios: validate config: %w", err)
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, optionName(fe.Field()))
			continue
		}
		invalid = append(invalid, fmt.Sprintf("%s (%s)", optionName(fe.Field()), fe.Tag()))
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfiguration, strings.Join(missing, ", "))
	}
	return fmt.Errorf("esios: invalid configuration: %s", strings.Join(invalid, ", "))
}

func optionName(field string) string {
	switch field {
	case "BaseURL":
		return "base_url"
	case "Token":
		return "token"
	default:
		return field
	}
}
