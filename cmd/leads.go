package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harborview-realty/neighborhood-cli/internal/leads"
	"github.com/harborview-realty/neighborhood-cli/internal/model"
	"github.com/harborview-realty/neighborhood-cli/internal/store"
	"github.com/harborview-realty/neighborhood-cli/pkg/crm"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Manage captured leads and CRM sync",
}

var leadsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a lead, optionally tagging it from quiz answers",
	RunE:  runLeadsAdd,
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List captured leads",
	RunE:  runLeadsList,
}

var leadsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push unsynced leads to Salesforce",
	RunE:  runLeadsSync,
}

func init() {
	f := leadsAddCmd.Flags()
	f.String("name", "", "lead full name (required)")
	f.String("email", "", "lead email (required)")
	f.String("phone", "", "lead phone")
	f.String("county", "", "county of interest")
	f.String("source", model.LeadSourceManual, "lead source")
	f.StringArrayP("answer", "a", nil, "quiz answer as question=choice (repeatable); tags the lead from a scoring pass")
	_ = leadsAddCmd.MarkFlagRequired("name")
	_ = leadsAddCmd.MarkFlagRequired("email")

	lf := leadsListCmd.Flags()
	lf.Bool("unsynced", false, "only leads not yet pushed to the CRM")
	lf.String("source", "", "filter by lead source")
	lf.Int("limit", 0, "maximum number of leads (0=all)")

	leadsCmd.AddCommand(leadsAddCmd)
	leadsCmd.AddCommand(leadsListCmd)
	leadsCmd.AddCommand(leadsSyncCmd)
	rootCmd.AddCommand(leadsCmd)
}

func openLeadStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
}

func runLeadsAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	phone, _ := cmd.Flags().GetString("phone")
	county, _ := cmd.Flags().GetString("county")
	source, _ := cmd.Flags().GetString("source")
	rawAnswers, _ := cmd.Flags().GetStringArray("answer")

	lead := model.Lead{
		Name:   name,
		Email:  email,
		Phone:  phone,
		County: county,
		Source: source,
	}

	if len(rawAnswers) > 0 {
		answers, err := parseAnswers(rawAnswers)
		if err != nil {
			return err
		}
		engine, _, err := initEngine()
		if err != nil {
			return err
		}
		if results := engine.ScoreAreas(answers, county); len(results) > 0 {
			lead.TopMatch = results[0].DisplayName
			lead.CRMTags = engine.CRMTags(answers, results[0])
		}
	}

	s, err := openLeadStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Migrate(ctx); err != nil {
		return err
	}

	created, err := s.CreateLead(ctx, lead)
	if err != nil {
		return err
	}

	fmt.Printf("Lead %s recorded.\n", created.ID)
	if created.TopMatch != "" {
		fmt.Printf("Top match: %s\n", created.TopMatch)
		fmt.Printf("CRM tags:  %s\n", created.CRMTags)
	}
	return nil
}

func runLeadsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	unsynced, _ := cmd.Flags().GetBool("unsynced")
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openLeadStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Migrate(ctx); err != nil {
		return err
	}

	list, err := s.ListLeads(ctx, store.LeadFilter{Unsynced: unsynced, Source: source, Limit: limit})
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No leads.")
		return nil
	}

	fmt.Printf("%-36s %-24s %-28s %-18s %-8s %s\n", "ID", "Name", "Email", "Top Match", "Synced", "Created")
	fmt.Println(strings.Repeat("-", 128))
	for _, l := range list {
		fmt.Printf("%-36s %-24s %-28s %-18s %-8v %s\n",
			l.ID, truncate(l.Name, 24), truncate(l.Email, 28), truncate(l.TopMatch, 18),
			l.Synced(), l.CreatedAt.Format(time.DateOnly))
	}
	return nil
}

func runLeadsSync(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sf := cfg.Salesforce
	if sf.ClientID == "" || sf.Username == "" || sf.KeyPath == "" {
		return eris.New("leads: salesforce client_id, username, and key_path must be configured")
	}

	s, err := openLeadStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Migrate(ctx); err != nil {
		return err
	}

	client, err := crm.Connect(crm.Creds{
		LoginURL: sf.LoginURL,
		Username: sf.Username,
		ClientID: sf.ClientID,
		KeyPath:  sf.KeyPath,
	}, crm.WithRateLimit(sf.RateLimit))
	if err != nil {
		return err
	}

	syncer := leads.NewSyncer(s, client, sf.Concurrency)

	zap.L().Info("starting lead sync", zap.Int("concurrency", sf.Concurrency))

	n, err := syncer.Sync(ctx)
	if err != nil {
		return eris.Wrap(err, "leads: sync")
	}

	fmt.Printf("Synced %d lead(s).\n", n)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
