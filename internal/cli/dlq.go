package cli

import (
	"fmt"

	"github.com/CesarSanchez19/Backend-Time-Fit/internal/infra"
	"github.com/CesarSanchez19/Backend-Time-Fit/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func newDLQCmd() *cobra.Command {
	dlq := &cobra.Command{
		Use:   "dlq",
		Short: "Inspect and requeue dead-lettered jobs",
	}
	dlq.AddCommand(newDLQLengthCmd())
	dlq.AddCommand(newDLQRequeueCmd())
	return dlq
}

func newDLQLengthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "length",
		Short: "Print the number of entries per dead letter queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rdb, err := redisFromConfig()
			if err != nil {
				return err
			}
			defer rdb.Close()

			for _, q := range worker.Queues {
				n, err := worker.DLQLength(cmd.Context(), rdb, q)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %d\n", worker.DLQPrefix+q, n)
			}
			return nil
		},
	}
}

func newDLQRequeueCmd() *cobra.Command {
	var max int
	cmd := &cobra.Command{
		Use:   "requeue [queue]",
		Short: "Move dead-lettered jobs back to their queue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rdb, err := redisFromConfig()
			if err != nil {
				return err
			}
			defer rdb.Close()

			queues := worker.Queues
			if len(args) == 1 {
				queues = []string{args[0]}
			}
			for _, q := range queues {
				n, err := worker.RequeueDLQ(cmd.Context(), rdb, q, max)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d requeued\n", q, n)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&max, "max", 100, "maximum jobs to requeue per queue")
	return cmd
}

func redisFromConfig() (*redis.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return infra.NewRedis(cfg.RedisURL)
}
