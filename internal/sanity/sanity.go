package sanity

import (
	"github.com/san-kum/ipcsim/internal/logging"
	"github.com/san-kum/ipcsim/internal/scene"
	"go.uber.org/zap"
)

// Result is ordered by severity.
type Result int

const (
	Success Result = iota
	Warning
	Error
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

type Checker interface {
	Name() string
	// Check returns the result and a message, empty on success.
	Check(s *scene.Scene) (Result, string)
}

type Collection struct {
	checkers []Checker
	logger   *zap.Logger
}

func NewCollection(logger *zap.Logger, checkers ...Checker) *Collection {
	return &Collection{checkers: checkers, logger: logging.OrNop(logger)}
}

// Default returns a collection holding every builtin checker.
func Default(logger *zap.Logger) *Collection {
	return NewCollection(logger,
		FinitePositions{},
		AffineTransforms{},
		ConstitutionRegistered{},
		MissingConstitution{},
	)
}

func (c *Collection) Register(ch Checker) { c.checkers = append(c.checkers, ch) }

func (c *Collection) Len() int { return len(c.checkers) }

// Check runs every checker and returns the worst result.
func (c *Collection) Check(s *scene.Scene) Result {
	worst := Success
	for _, ch := range c.checkers {
		r, msg := ch.Check(s)
		fields := []zap.Field{zap.String("checker", ch.Name()), zap.String("result", r.String())}
		switch r {
		case Success:
			c.logger.Debug("sanity check passed", fields...)
		case Warning:
			c.logger.Warn(msg, fields...)
		default:
			c.logger.Error(msg, fields...)
		}
		worst = max(worst, r)
	}
	return worst
}
