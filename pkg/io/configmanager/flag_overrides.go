package configmanager

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ErrUnsupportedFieldType is returned when a field selector points at a type
// no flag can be bound to.
var ErrUnsupportedFieldType = errors.New("unsupported field type for flag override")

func setFieldValueFromFlag(flags *pflag.FlagSet, name string, field any) error {
	switch target := field.(type) {
	case *string:
		value, err := flags.GetString(name)
		if err != nil {
			return fmt.Errorf("failed to read flag %q: %w", name, err)
		}

		*target = value
	case *bool:
		value, err := flags.GetBool(name)
		if err != nil {
			return fmt.Errorf("failed to read flag %q: %w", name, err)
		}

		*target = value
	case *int32:
		value, err := flags.GetInt32(name)
		if err != nil {
			return fmt.Errorf("failed to read flag %q: %w", name, err)
		}

		*target = value
	case *metav1.Duration:
		value, err := flags.GetDuration(name)
		if err != nil {
			return fmt.Errorf("failed to read flag %q: %w", name, err)
		}

		*target = metav1.Duration{Duration: value}
	default:
		return fmt.Errorf("%w: flag %q", ErrUnsupportedFieldType, name)
	}

	return nil
}
