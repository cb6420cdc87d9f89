package usecase

import (
	"context"

	"TrustTrace/internal/domain/models"
	domrepo "TrustTrace/internal/domain/repository"
	applogger "TrustTrace/pkg/logger"
	pkgqueue "TrustTrace/pkg/queue"
)

// InvestigateJobType is the queue message type for async investigations.
const InvestigateJobType = "investigate"

// InvestigateJob runs queued investigations and publishes the finished
// reports downstream.
type InvestigateJob struct {
	inv     *Investigator
	reports domrepo.ReportPublisher
	logger  *applogger.Logger
}

func NewInvestigateJob(inv *Investigator, reports domrepo.ReportPublisher, logger *applogger.Logger) *InvestigateJob {
	return &InvestigateJob{inv: inv, reports: reports, logger: logger}
}

func (j *InvestigateJob) Name() string { return "investigate_profile" }

func (j *InvestigateJob) Type() string { return InvestigateJobType }

func (j *InvestigateJob) Handle(ctx context.Context, payload interface{}) error {
	req, err := pkgqueue.ParsePayload[models.InvestigateRequest](payload)
	if err != nil {
		return err
	}

	report, err := j.inv.Investigate(ctx, req.Profile(), InvestigateOptions{Quick: req.Quick})
	if err != nil {
		return err
	}
	j.logger.Info("async investigation finished",
		applogger.String("debt_type", req.DebtType),
		applogger.Int("candidates", report.Summary.CandidatesFound))

	if j.reports != nil {
		if err := j.reports.PublishReport(ctx, report); err != nil {
			j.logger.Error("report publish failed", applogger.Error(err))
			return err
		}
	}
	return nil
}

var _ pkgqueue.Job = (*InvestigateJob)(nil)
