package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

type LogNotifier struct {
	log logrus.FieldLogger
}

func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, e Event) {
	fields := logrus.Fields{"kind": e.Kind}
	if e.ProductID != 0 {
		fields["product_id"] = e.ProductID
	}
	if e.Quantity != 0 {
		fields["quantity"] = e.Quantity
	}
	n.log.WithFields(fields).Info(e.Message)
}
