package main

import (
	"github.com/sells-group/spam-triage/internal/classify"
	"github.com/sells-group/spam-triage/internal/config"
	"github.com/sells-group/spam-triage/internal/mutate"
	"github.com/sells-group/spam-triage/internal/resilience"
	"github.com/sells-group/spam-triage/internal/resolve"
	"github.com/sells-group/spam-triage/internal/triage"
	"github.com/sells-group/spam-triage/pkg/amocrm"
	"github.com/sells-group/spam-triage/pkg/spravportal"
)

// triageEnv holds the clients and components shared by the serve, triage,
// check and pipelines commands.
type triageEnv struct {
	Breakers   *resilience.ServiceBreakers
	CRM        amocrm.Client // nil for the check command
	Classifier *classify.Classifier
	Resolver   *resolve.Resolver
	Pipeline   *triage.Pipeline // nil unless both clients are configured
}

// initTriage validates the configuration for scope and wires the clients,
// each behind its own circuit breaker.
func initTriage(c *config.Config, scope string) (*triageEnv, error) {
	if err := c.Validate(scope); err != nil {
		return nil, err
	}

	env := &triageEnv{
		Breakers: resilience.NewServiceBreakers(
			resilience.FromCircuitConfig(c.Circuit.FailureThreshold, c.Circuit.ResetTimeoutSecs),
		),
	}

	if scope != "pipelines" {
		rep := spravportal.NewClient(c.Reputation.Key,
			spravportal.WithURL(c.Reputation.URL),
			spravportal.WithTimeout(c.Reputation.Timeout()),
		)
		env.Classifier = classify.New(
			triage.GuardReputation(rep, env.Breakers.Get(triage.ServiceReputation)),
			c.Spam.Threshold,
		)
	}

	if scope != "check" {
		crm := amocrm.NewClient(c.CRM.Domain, c.CRM.Token, amocrm.WithTimeout(c.CRM.Timeout()))
		env.CRM = triage.GuardCRM(crm, env.Breakers.Get(triage.ServiceCRM))
		env.Resolver = resolve.New(env.CRM)
	}

	if env.Classifier != nil && env.CRM != nil {
		orch := mutate.New(env.CRM, mutate.Config{
			Tag:        c.CRM.SpamTag,
			StatusID:   c.CRM.SpamStatusID,
			PipelineID: c.CRM.SpamPipelineID,
			Action:     c.CRM.Action(),
		})
		env.Pipeline = triage.New(env.Classifier, orch)
	}
	return env, nil
}
