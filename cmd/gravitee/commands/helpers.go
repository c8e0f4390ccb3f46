package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/abourdon/gravitee-toolbox-sub000/internal/constants"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/apim"
	"github.com/abourdon/gravitee-toolbox-sub000/pkg/gravitee"
)

// zerologAdapter exposes a zerolog.Logger through the apim.Logger interface.
type zerologAdapter struct {
	log zerolog.Logger
}

func newLogger() apim.Logger {
	level := zerolog.WarnLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	return &zerologAdapter{log: logger}
}

func (l *zerologAdapter) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *zerologAdapter) Info(msg string, fields map[string]interface{}) {
	l.log.Info().Fields(fields).Msg(msg)
}

func (l *zerologAdapter) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn().Fields(fields).Msg(msg)
}

func (l *zerologAdapter) Error(msg string, fields map[string]interface{}) {
	l.log.Error().Fields(fields).Msg(msg)
}

// CreateClient builds an API client from the effective configuration, flags
// and environment included.
func CreateClient(cmd *cobra.Command) (apim.Client, error) {
	url := viper.GetString("url")
	if url == "" {
		return nil, constants.ErrNoURLConfigured
	}

	config := &apim.Config{
		BaseURL:   url,
		Token:     viper.GetString("token"),
		Username:  viper.GetString("username"),
		Password:  viper.GetString("password"),
		StrictTLS: !viper.GetBool("insecure-skip-verify"),
		Debug:     viper.GetBool("verbose"),
		Logger:    newLogger(),
	}

	return gravitee.New(cmd.Context(), config)
}

// outputJSON writes v to stdout as indented JSON.
func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", constants.JSONIndent)

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	return nil
}

// outputYAML writes v to stdout as YAML.
func outputYAML(v interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer func() { _ = encoder.Close() }()

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML output: %w", err)
	}

	return nil
}

// confirm asks for interactive y/N approval on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)

	reader := bufio.NewReader(os.Stdin)

	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes"
}

// formatTimestamp renders an epoch-milliseconds timestamp, or N/A when unset.
func formatTimestamp(millis int64) string {
	if millis <= 0 {
		return constants.NotAvailable
	}

	return time.UnixMilli(millis).UTC().Format(time.RFC3339)
}

// ownerName renders the display name of an owner, or N/A when absent.
func ownerName(owner *apim.PrimaryOwner) string {
	if owner == nil || owner.DisplayName == "" {
		return constants.NotAvailable
	}

	return owner.DisplayName
}
