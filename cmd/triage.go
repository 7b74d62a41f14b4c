package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	triageLeadID int64
	triagePhone  string
)

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Check one lead and apply the spam mutations",
	Long:  "Runs the full pipeline for a single lead synchronously. Without --phone, the phone of the lead's first contact is used.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if triageLeadID <= 0 {
			return eris.New("triage: --lead-id is required")
		}

		env, err := initTriage(cfg, "triage")
		if err != nil {
			return err
		}

		phone := triagePhone
		if phone == "" {
			phone, err = env.Resolver.Remote(ctx, triageLeadID)
			if err != nil {
				return err
			}
			if phone == "" {
				return eris.Errorf("triage: lead %d has no contact phone", triageLeadID)
			}
			zap.L().Info("phone resolved from crm", zap.Int64("lead_id", triageLeadID), zap.String("phone", phone))
		}

		res, err := env.Pipeline.Process(ctx, triageLeadID, phone)
		if err != nil {
			return eris.Wrapf(err, "triage: lead %d", triageLeadID)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	triageCmd.Flags().Int64Var(&triageLeadID, "lead-id", 0, "amoCRM lead id")
	triageCmd.Flags().StringVar(&triagePhone, "phone", "", "phone number (default: looked up from the lead's contact)")
	rootCmd.AddCommand(triageCmd)
}
