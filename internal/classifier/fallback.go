package classifier

import (
	"context"
	"fmt"

	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/sirupsen/logrus"
)

// Fallback uses the secondary classifier whenever the primary one fails,
// so a run always gets a label from the closed set.
type Fallback struct {
	primary   Classifier
	secondary Classifier
	onFailure func(err error)
}

var _ Classifier = (*Fallback)(nil)

// NewFallback wraps primary with secondary. onFailure, if set, is told about every primary failure.
func NewFallback(primary, secondary Classifier, onFailure func(err error)) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, onFailure: onFailure}
}

func (f *Fallback) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

func (f *Fallback) Classify(ctx context.Context, snippet, referenceText string) (models.AccuracyLabel, error) {
	label, err := f.primary.Classify(ctx, snippet, referenceText)
	if err == nil && label.Valid() {
		return label, nil
	}
	if err == nil {
		err = fmt.Errorf("%w: %q", ErrUnparseableLabel, label)
	}

	logrus.WithError(err).WithField("classifier", f.primary.Name()).
		Warn("Classification failed, using fallback classifier")
	if f.onFailure != nil {
		f.onFailure(err)
	}

	return f.secondary.Classify(ctx, snippet, referenceText)
}
