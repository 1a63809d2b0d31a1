// Package alerts follows suspicious activity alerts published by the server.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/pubsub"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/Tatu1984/hrms-sub001/internal/interfaces/http"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

var (
	env        string
	configPath string
	asJSON     bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Suspicious activity alerts",
	}

	bootstrap.RegisterFlags(cmd.PersistentFlags(), &env, &configPath)

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Print alerts as they are raised",
		Long:  `Subscribe to the suspicious activity channel and print every alert until interrupted.`,
		RunE:  runWatch,
	}
	watch.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON messages")

	cmd.AddCommand(watch)
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Init(bootstrap.ResolveEnv(env), configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client := httpRouter.InitRedis(cfg, log)
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (ctrl-c to stop)\n", pubsub.SuspiciousActivityChannel)

	bus := pubsub.NewRedisAlertBus(client, log)
	if err := bus.Subscribe(ctx, func(msg pubsub.AlertMessage) {
		printAlert(out, msg, asJSON)
	}); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func printAlert(w io.Writer, msg pubsub.AlertMessage, raw bool) {
	if raw {
		data, err := json.Marshal(msg)
		if err == nil {
			fmt.Fprintln(w, string(data))
		}
		return
	}

	a := msg.Alert
	line := fmt.Sprintf("%s  employee=%d session=%d pattern=%s",
		biztime.ToBizTimezone(a.RecordedAt).Format("2006-01-02 15:04:05"),
		a.EmployeeID, a.SessionID, a.PatternType)
	if a.PatternDetail != "" {
		line += fmt.Sprintf(" detail=%q", a.PatternDetail)
	}
	if a.ClientIP != "" {
		line += " ip=" + a.ClientIP
	}
	fmt.Fprintln(w, line)
}
