// Package configmanager loads the homelab cluster configuration from file,
// environment variables and CLI flags, in increasing order of precedence.
package configmanager

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/homelab-dev/homelab/pkg/apis/cluster/v1alpha1"
	"github.com/homelab-dev/homelab/pkg/ui/notify"
	"github.com/homelab-dev/homelab/pkg/ui/timer"
)

const (
	configName = "homelab"
	envPrefix  = "HOMELAB"
)

// ConfigManager loads and caches a cluster configuration. Precedence from
// lowest to highest: built-in defaults, config file, environment variables,
// CLI flags.
type ConfigManager struct {
	// Viper is the underlying viper instance, exposed for inspection.
	Viper *viper.Viper
	// Config is the loaded cluster configuration.
	Config *v1alpha1.Cluster

	fieldSelectors  []FieldSelector[v1alpha1.Cluster]
	command         *cobra.Command
	writer          io.Writer
	configLoaded    bool
	configFileFound bool
}

// NewConfigManager creates a manager that loads configuration from file and
// environment only. Use NewCommandConfigManager to also bind CLI flags.
func NewConfigManager(
	writer io.Writer,
	fieldSelectors ...FieldSelector[v1alpha1.Cluster],
) *ConfigManager {
	return &ConfigManager{
		Viper:          newViper(),
		Config:         v1alpha1.NewCluster(),
		fieldSelectors: fieldSelectors,
		writer:         writer,
	}
}

// NewCommandConfigManager creates a manager bound to a cobra command and
// registers one flag per field selector on it.
func NewCommandConfigManager(
	cmd *cobra.Command,
	fieldSelectors []FieldSelector[v1alpha1.Cluster],
) *ConfigManager {
	manager := NewConfigManager(cmd.OutOrStdout(), fieldSelectors...)
	manager.command = cmd
	manager.addFlags(cmd)

	return manager
}

func newViper() *viper.Viper {
	instance := viper.New()
	instance.SetConfigName(configName)
	instance.SetConfigType("yaml")
	instance.AddConfigPath(".")
	instance.AddConfigPath("$HOME/.config/homelab")
	instance.SetEnvPrefix(envPrefix)
	instance.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	instance.AutomaticEnv()

	return instance
}

// LoadConfig loads the configuration and reports progress to the manager's
// writer. Subsequent calls return the cached configuration.
func (m *ConfigManager) LoadConfig(tmr timer.Timer) (*v1alpha1.Cluster, error) {
	if m.configLoaded {
		return m.Config, nil
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: "Load config...",
		Emoji:   "⏳",
		Writer:  m.writer,
	})

	err := m.load()
	if err != nil {
		return nil, err
	}

	if m.configFileFound {
		notify.Activityf(m.writer, "'%s' found", m.Viper.ConfigFileUsed())
	} else {
		notify.Activityf(m.writer, "using default config")
	}

	notify.SuccessWithTimerf(m.writer, tmr, "config loaded")

	return m.Config, nil
}

// LoadConfigSilent loads the configuration without progress output.
func (m *ConfigManager) LoadConfigSilent() (*v1alpha1.Cluster, error) {
	if m.configLoaded {
		return m.Config, nil
	}

	err := m.load()
	if err != nil {
		return nil, err
	}

	return m.Config, nil
}

// ConfigFileFound reports whether a config file was located during loading.
func (m *ConfigManager) ConfigFileFound() bool {
	return m.configFileFound
}

// --- internals ---

func (m *ConfigManager) load() error {
	err := m.readConfig()
	if err != nil {
		return err
	}

	err = m.unmarshalAndApplyDefaults()
	if err != nil {
		return err
	}

	err = m.applyFlagOverrides()
	if err != nil {
		return err
	}

	err = m.Config.Validate()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m.configLoaded = true

	return nil
}

// readConfig reads the config file if one exists. A missing file is not an
// error; defaults, environment and flags still apply.
func (m *ConfigManager) readConfig() error {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			m.configFileFound = false

			return nil
		}

		return fmt.Errorf("failed to read config file: %w", err)
	}

	m.configFileFound = true

	return nil
}

func (m *ConfigManager) unmarshalAndApplyDefaults() error {
	err := m.Viper.Unmarshal(m.Config, func(config *mapstructure.DecoderConfig) {
		config.TagName = "json"
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			metav1DurationHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	m.Config.SetDefaults()
	m.applyFieldDefaults()

	return nil
}

// metav1DurationHookFunc decodes duration strings like "5m" into
// metav1.Duration fields.
func metav1DurationHookFunc() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(metav1.Duration{})

	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != durationType {
			return data, nil
		}

		raw, _ := data.(string)

		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse duration %q: %w", raw, err)
		}

		return metav1.Duration{Duration: parsed}, nil
	}
}

// applyFieldDefaults fills selector defaults into fields left empty by the
// file and environment.
func (m *ConfigManager) applyFieldDefaults() {
	for _, selector := range m.fieldSelectors {
		if selector.DefaultValue == nil {
			continue
		}

		field := selector.Selector(m.Config)
		if !isFieldEmpty(field) {
			continue
		}

		setFieldValue(field, selector.DefaultValue)
	}
}

// isFieldEmpty reports whether the pointed-to field holds its zero value.
func isFieldEmpty(field any) bool {
	value := reflect.ValueOf(field)
	if value.Kind() != reflect.Pointer || value.IsNil() {
		return true
	}

	return value.Elem().IsZero()
}

func setFieldValue(field, value any) {
	switch target := field.(type) {
	case *string:
		str, ok := value.(string)
		if ok {
			*target = str
		}
	case *bool:
		boolean, ok := value.(bool)
		if ok {
			*target = boolean
		}
	case *int32:
		number, ok := value.(int32)
		if ok {
			*target = number
		}
	case *metav1.Duration:
		switch duration := value.(type) {
		case metav1.Duration:
			*target = duration
		case time.Duration:
			*target = metav1.Duration{Duration: duration}
		}
	}
}

func (m *ConfigManager) addFlags(cmd *cobra.Command) {
	for _, selector := range m.fieldSelectors {
		if selector.FlagName == "" {
			continue
		}

		switch selector.Selector(m.Config).(type) {
		case *string:
			defaultValue, _ := selector.DefaultValue.(string)
			cmd.Flags().String(selector.FlagName, defaultValue, selector.Description)
		case *bool:
			defaultValue, _ := selector.DefaultValue.(bool)
			cmd.Flags().Bool(selector.FlagName, defaultValue, selector.Description)
		case *int32:
			defaultValue, _ := selector.DefaultValue.(int32)
			cmd.Flags().Int32(selector.FlagName, defaultValue, selector.Description)
		case *metav1.Duration:
			var defaultValue time.Duration

			duration, ok := selector.DefaultValue.(metav1.Duration)
			if ok {
				defaultValue = duration.Duration
			}

			cmd.Flags().Duration(selector.FlagName, defaultValue, selector.Description)
		}
	}
}

// applyFlagOverrides writes explicitly set flag values into the
// configuration. Flags win over file, environment and defaults.
func (m *ConfigManager) applyFlagOverrides() error {
	if m.command == nil {
		return nil
	}

	flags := m.command.Flags()

	for _, selector := range m.fieldSelectors {
		if selector.FlagName == "" || !flags.Changed(selector.FlagName) {
			continue
		}

		err := setFieldValueFromFlag(flags, selector.FlagName, selector.Selector(m.Config))
		if err != nil {
			return err
		}
	}

	return nil
}
