// Package notification completes elapsed orders and emails their owners.
package notification

import (
	"bytes"
	"context"
	"text/template"
	"time"

	"carwash/internal/domain"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const subject = "Ваш заказ выполнен"

var bodyTemplate = template.Must(template.New("order_completed").Parse(
	`Уважаемый(ая) {{.FirstName}},

Ваш заказ под номером {{.OrderID}} выполнен. Как всё прошло?

До встречи,
{{.Signature}}
`))

type OrderStore interface {
	MarkElapsedCompleted(ctx context.Context, now time.Time) (int64, error)
	PendingNotification(ctx context.Context) ([]domain.Order, error)
	MarkNotified(ctx context.Context, id int64) error
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Report summarises one dispatcher run.
type Report struct {
	Marked  int64 `json:"marked"`
	Sent    int   `json:"sent"`
	Skipped int   `json:"skipped"`
	Failed  int   `json:"failed"`
}

type Dispatcher struct {
	orders    OrderStore
	mailer    Mailer
	signature string
	now       func() time.Time
}

func NewDispatcher(orders OrderStore, mailer Mailer, signature string) *Dispatcher {
	return &Dispatcher{orders: orders, mailer: mailer, signature: signature, now: time.Now}
}

// Run marks every un-notified order whose end passed as completed, then emails
// the owner of each completed, un-notified order. An order is flagged notified
// only after a successful send, so failures are retried on the next run.
func (d *Dispatcher) Run(ctx context.Context) (Report, error) {
	var rep Report

	marked, err := d.orders.MarkElapsedCompleted(ctx, d.now())
	if err != nil {
		return rep, errors.Wrap(err, "mark elapsed orders")
	}
	rep.Marked = marked

	pending, err := d.orders.PendingNotification(ctx)
	if err != nil {
		return rep, errors.Wrap(err, "load pending orders")
	}

	for i := range pending {
		o := &pending[i]
		if o.CustomerCar == nil || o.CustomerCar.Customer == nil || o.CustomerCar.Customer.Email == "" {
			zap.S().Debugw("no recipient for order", "order_id", o.ID)
			rep.Skipped++
			continue
		}
		customer := o.CustomerCar.Customer

		body, err := d.render(o.ID, customer)
		if err != nil {
			return rep, err
		}
		if err := d.mailer.Send(ctx, customer.Email, subject, body); err != nil {
			zap.S().Warnw("order notification failed", "order_id", o.ID, "error", err)
			rep.Failed++
			continue
		}
		if err := d.orders.MarkNotified(ctx, o.ID); err != nil {
			return rep, errors.Wrapf(err, "mark order %d notified", o.ID)
		}
		rep.Sent++
	}
	return rep, nil
}

func (d *Dispatcher) render(orderID int64, u *domain.User) (string, error) {
	var buf bytes.Buffer
	err := bodyTemplate.Execute(&buf, map[string]any{
		"FirstName": u.FirstName,
		"OrderID":   orderID,
		"Signature": d.signature,
	})
	return buf.String(), errors.Wrap(err, "render notification")
}

// Schedule runs the dispatcher on c at the given cron schedule.
func (d *Dispatcher) Schedule(c *cron.Cron, schedule string) (cron.EntryID, error) {
	return c.AddFunc(schedule, func() {
		rep, err := d.Run(context.Background())
		if err != nil {
			zap.S().Errorw("notification run failed", "error", err)
			return
		}
		if rep != (Report{}) {
			zap.S().Infow("notification run", "marked", rep.Marked, "sent", rep.Sent, "skipped", rep.Skipped, "failed", rep.Failed)
		}
	})
}
