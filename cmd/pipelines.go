package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/spam-triage/pkg/amocrm"
)

var pipelinesOutput string

var pipelinesCmd = &cobra.Command{
	Use:   "pipelines",
	Short: "List CRM pipelines and statuses",
	Long:  "Lists amoCRM lead pipelines with their statuses and highlights spam statuses, to find the ids for AMOCRM_SPAM_STATUS_ID and AMOCRM_SPAM_PIPELINE_ID.",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initTriage(cfg, "pipelines")
		if err != nil {
			return err
		}

		pipelines, err := env.CRM.ListPipelines(cmd.Context())
		if err != nil {
			return err
		}

		switch pipelinesOutput {
		case "text":
			formatPipelines(os.Stdout, pipelines)
			return nil
		case "yaml":
			return writePipelinesYAML(os.Stdout, pipelines)
		default:
			return eris.Errorf("pipelines: unknown output %q", pipelinesOutput)
		}
	},
}

func init() {
	pipelinesCmd.Flags().StringVar(&pipelinesOutput, "output", "text", "output format: text or yaml")
	rootCmd.AddCommand(pipelinesCmd)
}

// isSpamStatus reports whether a status name looks like a spam stage.
func isSpamStatus(name string) bool {
	return strings.Contains(strings.ToLower(name), "спам")
}

type spamTarget struct {
	PipelineID int64
	StatusID   int64
	Name       string
}

func spamTargets(pipelines []amocrm.Pipeline) []spamTarget {
	var out []spamTarget
	for _, p := range pipelines {
		for _, s := range p.Embedded.Statuses {
			if isSpamStatus(s.Name) {
				out = append(out, spamTarget{PipelineID: p.ID, StatusID: s.ID, Name: s.Name})
			}
		}
	}
	return out
}

// formatPipelines writes pipelines and statuses to out, followed by the
// settings for any spam status found.
func formatPipelines(out io.Writer, pipelines []amocrm.Pipeline) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PIPELINE\tPIPELINE_ID\tSTATUS\tSTATUS_ID\t")
	_, _ = fmt.Fprintln(w, "--------\t-----------\t------\t---------\t")
	for _, p := range pipelines {
		name := p.Name
		if p.IsMain {
			name += " (main)"
		}
		for _, s := range p.Embedded.Statuses {
			mark := ""
			if isSpamStatus(s.Name) {
				mark = "<- spam"
			}
			_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n", name, p.ID, s.Name, s.ID, mark)
		}
	}
	_ = w.Flush()

	targets := spamTargets(pipelines)
	if len(targets) == 0 {
		_, _ = fmt.Fprintln(out, "\nNo spam status found. Create one in amoCRM or set the ids manually.")
		return
	}
	for _, t := range targets {
		_, _ = fmt.Fprintf(out, "\n# %s\nAMOCRM_SPAM_STATUS_ID=%d\nAMOCRM_SPAM_PIPELINE_ID=%d\n", t.Name, t.StatusID, t.PipelineID)
	}
}

type yamlStatus struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
	Spam bool   `yaml:"spam,omitempty"`
}

type yamlPipeline struct {
	ID       int64        `yaml:"id"`
	Name     string       `yaml:"name"`
	Main     bool         `yaml:"main,omitempty"`
	Statuses []yamlStatus `yaml:"statuses"`
}

func writePipelinesYAML(out io.Writer, pipelines []amocrm.Pipeline) error {
	doc := make([]yamlPipeline, 0, len(pipelines))
	for _, p := range pipelines {
		yp := yamlPipeline{ID: p.ID, Name: p.Name, Main: p.IsMain}
		for _, s := range p.Embedded.Statuses {
			yp.Statuses = append(yp.Statuses, yamlStatus{ID: s.ID, Name: s.Name, Spam: isSpamStatus(s.Name)})
		}
		doc = append(doc, yp)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"pipelines": doc}); err != nil {
		return eris.Wrap(err, "pipelines: encode yaml")
	}
	return eris.Wrap(enc.Close(), "pipelines: close yaml encoder")
}
