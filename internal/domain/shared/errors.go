package shared

import (
	"errors"
	"fmt"
	"time"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ResourceAmounts carries commodity amounts inside error payloads
type ResourceAmounts struct {
	Metal     float64
	Crystal   float64
	Deuterium float64
}

func (a ResourceAmounts) String() string {
	return fmt.Sprintf("metal=%.0f crystal=%.0f deuterium=%.0f", a.Metal, a.Crystal, a.Deuterium)
}

// Colony errors. Every rejected economy operation returns one of these;
// callers distinguish them with errors.As.

type ColonyError struct {
	*DomainError
	PlayerKey string
}

func NewColonyError(message, playerKey string) *ColonyError {
	return &ColonyError{DomainError: &DomainError{Message: message}, PlayerKey: playerKey}
}

type InsufficientResourcesError struct {
	*ColonyError
	Required  ResourceAmounts
	Available ResourceAmounts
}

func NewInsufficientResourcesError(playerKey string, required, available ResourceAmounts) *InsufficientResourcesError {
	return &InsufficientResourcesError{
		ColonyError: NewColonyError(
			fmt.Sprintf("insufficient resources: need %s, have %s", required, available),
			playerKey,
		),
		Required:  required,
		Available: available,
	}
}

type RequirementNotMetError struct {
	*ColonyError
	Requirement   string
	RequiredLevel int
	CurrentLevel  int
}

func NewRequirementNotMetError(playerKey, requirement string, requiredLevel, currentLevel int) *RequirementNotMetError {
	return &RequirementNotMetError{
		ColonyError: NewColonyError(
			fmt.Sprintf("requires %s level %d (current level %d)", requirement, requiredLevel, currentLevel),
			playerKey,
		),
		Requirement:   requirement,
		RequiredLevel: requiredLevel,
		CurrentLevel:  currentLevel,
	}
}

type AlreadyBuildingError struct {
	*ColonyError
	Track       string
	Kind        string
	Amount      int
	CompletesAt time.Time
}

func NewAlreadyBuildingError(playerKey, track, kind string, amount int, completesAt time.Time) *AlreadyBuildingError {
	return &AlreadyBuildingError{
		ColonyError: NewColonyError(
			fmt.Sprintf("%s %s is already in progress (completes at %s)", track, kind, completesAt.Format(time.RFC3339)),
			playerKey,
		),
		Track:       track,
		Kind:        kind,
		Amount:      amount,
		CompletesAt: completesAt,
	}
}

type ResearchBusyError struct {
	*ColonyError
	ActiveKind  string
	CompletesAt time.Time
}

func NewResearchBusyError(playerKey, activeKind string, completesAt time.Time) *ResearchBusyError {
	return &ResearchBusyError{
		ColonyError: NewColonyError(
			fmt.Sprintf("another research is already in progress: %s (completes at %s)", activeKind, completesAt.Format(time.RFC3339)),
			playerKey,
		),
		ActiveKind:  activeKind,
		CompletesAt: completesAt,
	}
}

type AlreadyOwnedError struct {
	*ColonyError
	Kind string
}

func NewAlreadyOwnedError(playerKey, kind string) *AlreadyOwnedError {
	return &AlreadyOwnedError{
		ColonyError: NewColonyError(fmt.Sprintf("only one %s can exist per colony", kind), playerKey),
		Kind:        kind,
	}
}

type NoActiveBuildError struct {
	*ColonyError
	Track string
	Kind  string
}

func NewNoActiveBuildError(playerKey, track, kind string) *NoActiveBuildError {
	return &NoActiveBuildError{
		ColonyError: NewColonyError(fmt.Sprintf("no active %s build of %s to cancel", track, kind), playerKey),
		Track:       track,
		Kind:        kind,
	}
}

type AlreadyInitializedError struct {
	*ColonyError
}

func NewAlreadyInitializedError(playerKey string) *AlreadyInitializedError {
	return &AlreadyInitializedError{
		ColonyError: NewColonyError(fmt.Sprintf("player %s already initialized", playerKey), playerKey),
	}
}

// RejectionReason classifies an error returned by an economy operation.
// Returns "internal" for anything that is not a domain rejection.
func RejectionReason(err error) string {
	var (
		insufficient *InsufficientResourcesError
		requirement  *RequirementNotMetError
		building     *AlreadyBuildingError
		busy         *ResearchBusyError
		owned        *AlreadyOwnedError
		noBuild      *NoActiveBuildError
		initialized  *AlreadyInitializedError
		validation   *ValidationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &insufficient):
		return "insufficient_resources"
	case errors.As(err, &requirement):
		return "requirement_not_met"
	case errors.As(err, &building):
		return "already_building"
	case errors.As(err, &busy):
		return "research_busy"
	case errors.As(err, &owned):
		return "already_owned"
	case errors.As(err, &noBuild):
		return "no_active_build"
	case errors.As(err, &initialized):
		return "already_initialized"
	case errors.As(err, &validation):
		return "validation"
	default:
		return "internal"
	}
}
