package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/neirolis/qanalytics-go"
	"github.com/neirolis/qanalytics-go/gosoap"
	"github.com/neirolis/qanalytics-go/internal/logger"
)

var (
	endpoint    string
	method      string
	data        string
	sendTimeout time.Duration
)

// sendCmd posts one report
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send one report to the service",
	Long: `Builds a request from --data and posts it to the configured service.

The value "now" is replaced by the current local time. ID_REG and FH_DATO
are filled in when missing.

Example:
  qanalytics send --data 'LATITUD=-32.1212 LONGITUD=-72.551 PLACA="AB 1234"'`,
	Args: cobra.NoArgs,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&endpoint, "endpoint", "", "service path, defaults to the configured one")
	sendCmd.Flags().StringVar(&method, "method", "", "service method, defaults to the configured one")
	sendCmd.Flags().StringVarP(&data, "data", "d", "", "space separated KEY=VALUE pairs")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 30*time.Second, "request timeout")
}

func runSend(cmd *cobra.Command, args []string) error {
	if endpoint == "" {
		endpoint = cnf.Request.Endpoint
	}
	if method == "" {
		method = cnf.Request.Method
	}

	fields, err := parseFields(data, time.Now())
	if err != nil {
		return err
	}

	client, err := qanalytics.NewClient(cnf.ClientParams())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), sendTimeout)
	defer cancel()

	resp, err := client.SendRequest(ctx, fields, endpoint, method)
	if err != nil {
		return err
	}

	logger.Event(method, "->", resp.Code)
	fmt.Fprintln(cmd.OutOrStdout(), resp.String())

	if !resp.OK() {
		return fmt.Errorf("report rejected: %s", resp.Code)
	}
	return nil
}

// parseFields splits KEY=VALUE words. Keys are uppercased.
func parseFields(input string, now time.Time) (gosoap.Fields, error) {
	words, err := shellquote.Split(input)
	if err != nil {
		return nil, fmt.Errorf("--data: %w", err)
	}

	var fields gosoap.Fields
	for _, word := range words {
		key, value, ok := strings.Cut(word, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("--data: %q is not KEY=VALUE", word)
		}

		key = strings.ToUpper(key)
		if strings.EqualFold(value, "now") {
			fields = fields.Add(key, gosoap.NaiveTime(now))
			continue
		}
		fields = fields.Add(key, value)
	}

	if _, ok := fields.Get("ID_REG"); !ok {
		fields = fields.Add("ID_REG", uuid.Must(uuid.NewV4()).String())
	}
	if _, ok := fields.Get("FH_DATO"); !ok {
		fields = fields.Add("FH_DATO", gosoap.NaiveTime(now))
	}

	return fields, nil
}
