package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	StoreEvent(ctx context.Context, event Event) (Event, error)
	// GetEvents returns events with start_time >= from and end_time < to.
	// A zero bound leaves that side of the range open.
	GetEvents(ctx context.Context, from time.Time, to time.Time) ([]Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	UpdateEvent(ctx context.Context, event Event) (Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var eventColumns = []string{"id", "title", "description", "start_time", "end_time", "category"}

type eventRow struct {
	Id          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	StartTime   time.Time `db:"start_time"`
	EndTime     time.Time `db:"end_time"`
	Category    string    `db:"category"`
}

func (r eventRow) toEvent() Event {
	return Event{
		Id:          r.Id,
		Title:       r.Title,
		Description: r.Description,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Category:    Category(r.Category),
	}
}

type EventRepositoryImpl struct {
	db *pgxpool.Pool
}

func NewEventRepo(db *pgxpool.Pool) *EventRepositoryImpl {
	return &EventRepositoryImpl{db: db}
}

func (r *EventRepositoryImpl) StoreEvent(ctx context.Context, event Event) (Event, error) {
	event.Id = uuid.NewString()
	query, args, err := psql.Insert("event").
		Columns(eventColumns...).
		Values(event.Id, event.Title, event.Description, event.StartTime, event.EndTime, string(event.Category)).
		ToSql()
	if err != nil {
		return Event{}, fmt.Errorf("could not build query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Event{}, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) GetEvents(ctx context.Context, from time.Time, to time.Time) ([]Event, error) {
	qb := psql.Select(eventColumns...).From("event").OrderBy("start_time")
	if !from.IsZero() {
		qb = qb.Where(sq.GtOrEq{"start_time": from})
	}
	if !to.IsZero() {
		qb = qb.Where(sq.Lt{"end_time": to})
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("could not build query: %w", err)
	}

	var rows []eventRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		err := fmt.Errorf("could not query events: %w", err)
		log.Error(err)
		return nil, err
	}

	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toEvent())
	}
	return events, nil
}

func (r *EventRepositoryImpl) GetEvent(ctx context.Context, id string) (Event, error) {
	query, args, err := psql.Select(eventColumns...).From("event").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return Event{}, fmt.Errorf("could not build query: %w", err)
	}

	var row eventRow
	if err := pgxscan.Get(ctx, r.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return Event{}, ErrEventNotFound
		}
		err := fmt.Errorf("could not query event %s: %w", id, err)
		log.Error(err)
		return Event{}, err
	}
	return row.toEvent(), nil
}

func (r *EventRepositoryImpl) UpdateEvent(ctx context.Context, event Event) (Event, error) {
	query, args, err := psql.Update("event").
		Set("title", event.Title).
		Set("description", event.Description).
		Set("start_time", event.StartTime).
		Set("end_time", event.EndTime).
		Set("category", string(event.Category)).
		Where(sq.Eq{"id": event.Id}).
		ToSql()
	if err != nil {
		return Event{}, fmt.Errorf("could not build query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Event{}, err
	}
	if tag.RowsAffected() == 0 {
		return Event{}, ErrEventNotFound
	}
	return event, nil
}

func (r *EventRepositoryImpl) DeleteEvent(ctx context.Context, id string) error {
	query, args, err := psql.Delete("event").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("could not build query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}
