// Package commands answers the text commands farmers send over WhatsApp.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/service/alerts"
	"github.com/mamadbah2/herdbook/internal/service/production"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

const alertListLimit = 5

// HelpText lists the supported commands.
const HelpText = "Commands:\n" +
	"alerts - pending alerts and vaccinations due\n" +
	"milk - today's milk figures\n" +
	"milk <liters> - record today's herd total\n" +
	"balance - income, expense and balance"

// SnapshotSource computes the dashboard figures.
type SnapshotSource interface {
	Snapshot(ctx context.Context, owner uuid.UUID) (models.DailySnapshot, error)
}

// TimelineSource provides the alert timeline.
type TimelineSource interface {
	Timeline(ctx context.Context, owner uuid.UUID) (alerts.Timeline, error)
}

// HerdTotalRecorder stores a whole-herd milk figure.
type HerdTotalRecorder interface {
	RecordHerdTotal(ctx context.Context, owner uuid.UUID, date *civil.Date, liters float64) (models.MilkRecord, error)
}

// Dispatcher executes parsed commands on behalf of one owner.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, owner uuid.UUID) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	snapshots SnapshotSource
	timeline  TimelineSource
	milk      HerdTotalRecorder
	logger    *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(snapshots SnapshotSource, timeline TimelineSource, milk HerdTotalRecorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{snapshots: snapshots, timeline: timeline, milk: milk, logger: logger}
}

// HandleCommand runs cmd and returns the reply text.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, owner uuid.UUID) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.Stringer("owner", owner), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandAlerts:
		return s.alerts(ctx, owner)
	case models.CommandMilk:
		if len(cmd.Args) > 0 {
			return s.recordMilk(ctx, owner, cmd.Args[0])
		}
		return s.milkToday(ctx, owner)
	case models.CommandBalance:
		return s.balance(ctx, owner)
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) alerts(ctx context.Context, owner uuid.UUID) (string, error) {
	tl, err := s.timeline.Timeline(ctx, owner)
	if err != nil {
		return "", err
	}
	if len(tl.Pending) == 0 && len(tl.UpcomingVaccinations) == 0 {
		return "No pending alerts.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Pending alerts: %d", len(tl.Pending))
	for i, p := range tl.Pending {
		if i == alertListLimit {
			fmt.Fprintf(&b, "\n  ... and %d more", len(tl.Pending)-i)
			break
		}
		fmt.Fprintf(&b, "\n  - %s on %s [%s]", p.Kind, p.DisplayDate, p.Urgency)
		if p.Description != "" {
			fmt.Fprintf(&b, " %s", p.Description)
		}
	}
	if len(tl.UpcomingVaccinations) > 0 {
		fmt.Fprintf(&b, "\nVaccinations due: %d", len(tl.UpcomingVaccinations))
		for i, v := range tl.UpcomingVaccinations {
			if i == alertListLimit {
				fmt.Fprintf(&b, "\n  ... and %d more", len(tl.UpcomingVaccinations)-i)
				break
			}
			fmt.Fprintf(&b, "\n  - %s %s on %s [%s]", v.AnimalName, v.Name, v.Date, v.Urgency)
		}
	}
	return b.String(), nil
}

func (s *Service) milkToday(ctx context.Context, owner uuid.UUID) (string, error) {
	snap, err := s.snapshots.Snapshot(ctx, owner)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Milk %s: herd total %.1f L, individual %.1f L.",
		snap.Day, production.Round1(snap.HerdTotalLiters), production.Round1(snap.IndividualLiters)), nil
}

func (s *Service) recordMilk(ctx context.Context, owner uuid.UUID, arg string) (string, error) {
	liters, err := strconv.ParseFloat(strings.TrimSuffix(strings.ReplaceAll(arg, ",", "."), "l"), 64)
	if err != nil {
		return "", ErrInvalidArguments
	}

	rec, err := s.milk.RecordHerdTotal(ctx, owner, nil, liters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Herd total saved for %s: %.1f L.", rec.Date, production.Round1(rec.Quantity)), nil
}

func (s *Service) balance(ctx context.Context, owner uuid.UUID) (string, error) {
	snap, err := s.snapshots.Snapshot(ctx, owner)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Income %s, expense %s, balance %s.",
		snap.Income.StringFixed(2), snap.Expense.StringFixed(2), snap.Balance.StringFixed(2)), nil
}
