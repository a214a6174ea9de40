package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/missionflow/internal/models"
)

func (c *Cli) writeCommand() *cobra.Command {
	var (
		payload string
		id      string
	)
	cmd := &cobra.Command{
		Use:   "write <create|update|upsert|delete> <collection>",
		Short: "Write a row, queueing it when the backend is unreachable",
		Example: `  missionflow write create tasks --data '{"title":"Draft report","status":"todo"}'
  missionflow write update tasks --id 5f1c... --data '{"status":"done"}'
  missionflow write delete tasks --id 5f1c...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			op := models.Operation(strings.ToLower(args[0]))
			if !op.Valid() {
				return fmt.Errorf("unknown operation %q", args[0])
			}

			row, err := parsePayload(payload)
			if err != nil {
				return err
			}
			if id != "" {
				row[models.IdentityField] = id
			}

			if err := c.authenticate(ctx); err != nil {
				return err
			}
			c.probe(ctx)

			result, err := c.dataService.Write(ctx, op, args[1], row)
			if err != nil {
				return fmt.Errorf("write failed: %w", err)
			}

			if result.Queued {
				c.io.Printf("⚠️  Backend unreachable: queued as action #%d\n", result.Action.ID)
				c.io.Printf("Pending actions: %d\n", c.state.Get().PendingCount)
				return nil
			}
			c.io.Printf("✓ %s %s applied\n", op, args[1])
			if rid := result.Record.ID(); rid != "" {
				c.io.Printf("ID: %s\n", rid)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&payload, "data", "", "Row fields as a JSON object")
	cmd.Flags().StringVar(&id, "id", "", "Row id (required for update and delete)")
	return cmd
}

// parsePayload разбирает JSON объект полей строки
func parsePayload(s string) (map[string]any, error) {
	row := map[string]any{}
	if strings.TrimSpace(s) == "" {
		return row, nil
	}
	if err := json.Unmarshal([]byte(s), &row); err != nil {
		return nil, fmt.Errorf("invalid --data: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("invalid --data: expected a JSON object")
	}
	return row, nil
}

// parseFields разбирает пары key=value в патч.
// Числа, true/false и null передаются как JSON значения, остальное строкой.
func parseFields(pairs []string) (map[string]any, error) {
	patch := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", p)
		}
		patch[strings.TrimSpace(k)] = scalar(v)
	}
	return patch, nil
}

func scalar(v string) any {
	var decoded any
	if err := json.Unmarshal([]byte(v), &decoded); err == nil {
		switch decoded.(type) {
		case float64, bool, nil:
			return decoded
		}
	}
	return v
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
