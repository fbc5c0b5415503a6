package event

import (
	"context"
	"fmt"

	pkgkafka "github.com/utafrali/JobPortal/pkg/kafka"
	"github.com/utafrali/JobPortal/pkg/logger"
	"github.com/utafrali/JobPortal/services/jobboard/internal/domain"
)

// Kafka topics for jobboard domain events.
var (
	TopicUserRegistered       = pkgkafka.Topic("user", "registered")
	TopicJobCreated           = pkgkafka.Topic("job", "created")
	TopicJobUpdated           = pkgkafka.Topic("job", "updated")
	TopicJobDeleted           = pkgkafka.Topic("job", "deleted")
	TopicApplicationSubmitted = pkgkafka.Topic("application", "submitted")
)

// Aggregate types.
const (
	AggregateTypeUser        = "user"
	AggregateTypeJob         = "job"
	AggregateTypeApplication = "application"
)

// UserRegisteredData is the payload of a user.registered event. It never
// carries credentials.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// JobData is the payload of job.created and job.updated events.
type JobData struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
}

// JobDeletedData is the payload of a job.deleted event.
type JobDeletedData struct {
	ID string `json:"id"`
}

// ApplicationSubmittedData is the payload of an application.submitted event.
type ApplicationSubmittedData struct {
	ID     string `json:"id"`
	JobID  string `json:"job_id"`
	UserID string `json:"user_id"`
}

// Publisher sends an event to its topic. *pkgkafka.Producer implements it.
type Publisher interface {
	Publish(ctx context.Context, event *pkgkafka.Event) error
}

// NopPublisher drops every event. It is used when Kafka is disabled.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, *pkgkafka.Event) error { return nil }

// Producer publishes jobboard domain events.
type Producer struct {
	publisher Publisher
}

// NewProducer creates a producer. A nil publisher drops events.
func NewProducer(publisher Publisher) *Producer {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Producer{publisher: publisher}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, u *domain.User) error {
	evt, err := pkgkafka.NewEvent(pkgkafka.Aggregate{Type: AggregateTypeUser, ID: u.ID}, "registered",
		UserRegisteredData{ID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		return err
	}
	return p.publish(ctx, evt)
}

// PublishJobCreated publishes a job.created event.
func (p *Producer) PublishJobCreated(ctx context.Context, j *domain.Job) error {
	return p.publishJob(ctx, j.ID, "created", jobData(j))
}

// PublishJobUpdated publishes a job.updated event.
func (p *Producer) PublishJobUpdated(ctx context.Context, j *domain.Job) error {
	return p.publishJob(ctx, j.ID, "updated", jobData(j))
}

// PublishJobDeleted publishes a job.deleted event.
func (p *Producer) PublishJobDeleted(ctx context.Context, jobID string) error {
	return p.publishJob(ctx, jobID, "deleted", JobDeletedData{ID: jobID})
}

// PublishApplicationSubmitted publishes an application.submitted event keyed
// by job so a job's applications stay ordered.
func (p *Producer) PublishApplicationSubmitted(ctx context.Context, a *domain.Application) error {
	evt, err := pkgkafka.NewEvent(pkgkafka.Aggregate{Type: AggregateTypeApplication, ID: a.ID}, "submitted",
		ApplicationSubmittedData{ID: a.ID, JobID: a.JobID, UserID: a.UserID})
	if err != nil {
		return err
	}
	return p.publish(ctx, evt.WithKey(a.JobID))
}

func (p *Producer) publishJob(ctx context.Context, jobID, action string, data any) error {
	evt, err := pkgkafka.NewEvent(pkgkafka.Aggregate{Type: AggregateTypeJob, ID: jobID}, action, data)
	if err != nil {
		return err
	}
	return p.publish(ctx, evt)
}

// publish stamps the request's correlation id and authenticated user on evt.
func (p *Producer) publish(ctx context.Context, evt *pkgkafka.Event) error {
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}
	if userID := logger.UserIDFromContext(ctx); userID != "" {
		evt.WithActor(userID)
	}
	if err := p.publisher.Publish(ctx, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", evt.Topic(), err)
	}
	return nil
}

func jobData(j *domain.Job) JobData {
	return JobData{ID: j.ID, Title: j.Title, Company: j.Company, Location: j.Location}
}
