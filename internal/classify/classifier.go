package classify

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/spam-triage/internal/model"
	"github.com/sells-group/spam-triage/internal/phone"
	"github.com/sells-group/spam-triage/internal/resilience"
	"github.com/sells-group/spam-triage/pkg/spravportal"
)

// ErrClassification marks every failure to obtain a verdict.
var ErrClassification = eris.New("classify: reputation check failed")

// Error wraps the underlying reputation failure for one phone number.
type Error struct {
	Phone string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("classify: check %q: %v", e.Phone, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches ErrClassification.
func (e *Error) Is(target error) bool { return target == ErrClassification }

// Classifier obtains verdicts from the reputation service.
type Classifier struct {
	client    spravportal.Client
	threshold int
}

// New creates a Classifier. threshold applies to score-schema responses.
func New(client spravportal.Client, threshold int) *Classifier {
	return &Classifier{client: client, threshold: threshold}
}

// Classify normalizes raw and checks it. Empty numbers are still submitted.
// On failure no verdict is produced.
func (c *Classifier) Classify(ctx context.Context, raw any) (model.Verdict, error) {
	p := phone.Normalize(raw)
	log := zap.L().With(zap.String("phone", p))
	log.Debug("classify: checking number")

	resp, err := c.client.Check(ctx, p)
	if err != nil {
		log.Error("classify: reputation check failed",
			zap.String("error_type", resilience.ClassifyError(err)),
			zap.Error(err),
		)
		return model.Verdict{}, &Error{Phone: p, Err: err}
	}

	v := Detect(resp.Entry()).Verdict(p, c.threshold)

	fields := []zap.Field{
		zap.String("action", v.Action),
		zap.Int("spam_score", v.Score),
		zap.String("schema", string(v.Schema)),
		zap.String("category", v.CategoryName),
	}
	if v.IsSpam {
		log.Info("classify: spam detected", fields...)
	} else {
		log.Info("classify: number clean", fields...)
	}
	return v, nil
}
