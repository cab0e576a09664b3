// Package notify dispatches fire-and-forget reports to members and
// employees. The sales engine never depends on delivery: failures are
// logged and swallowed.
package notify

import (
	"github.com/pichoendo/pos-backoffice-api/internal/models"

	"github.com/sirupsen/logrus"
)

type Notifier interface {
	SalesReport(member *models.Member, order *models.SalesOrder)
	SalaryReport(employee *models.Employee, record *models.SalaryRecord)
}

// LogNotifier writes notifications to the structured log. Stands in for a
// real mail/SMS dispatcher in deployments that have none configured.
type LogNotifier struct {
	Log *logrus.Logger
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{Log: log}
}

func (n *LogNotifier) SalesReport(member *models.Member, order *models.SalesOrder) {
	n.Log.WithFields(logrus.Fields{
		"member_id":  member.ID,
		"sales_code": order.Code,
		"total":      order.Total,
	}).Info("sales report dispatched to member")
}

func (n *LogNotifier) SalaryReport(employee *models.Employee, record *models.SalaryRecord) {
	n.Log.WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"period_run":  record.SalaryRunID,
		"total":       record.Total,
	}).Info("salary report dispatched to employee")
}
