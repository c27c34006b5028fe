package decicalc

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Settings are the user-configurable parameters of a Session.
type Settings struct {
	// Precision is the number of significant digits retained by arithmetic.
	Precision uint
	// DecimalPlaces is the number of fractional digits shown, or
	// NaturalPlaces to show each result at its own precision.
	DecimalPlaces int
	// UseGrouping inserts thousands separators.
	UseGrouping bool
	// StripTrailingZeros removes trailing fractional zeros.
	StripTrailingZeros bool
	// MaxHistory bounds the session history. Zero disables it.
	MaxHistory int
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Precision:     DefaultPrec,
		DecimalPlaces: 2,
	}
}

// Validate checks that the settings are usable. The error, if any, is a
// *SettingsError.
func (s Settings) Validate() error {
	if err := validPrec(s.Precision); err != nil {
		return err
	}
	switch {
	case s.DecimalPlaces < NaturalPlaces:
		return &SettingsError{Key: "decimal_places", Reason: "must be a non-negative integer"}
	case s.MaxHistory < 0:
		return &SettingsError{Key: "max_history", Reason: "must be a non-negative integer"}
	}
	return nil
}

func validPrec(prec uint) error {
	switch {
	case prec == 0:
		return &SettingsError{Key: "precision", Reason: "must be a positive integer"}
	case prec > MaxPrec:
		return &SettingsError{Key: "precision", Reason: "must be at most " + strconv.Itoa(MaxPrec)}
	}
	return nil
}

// Format returns the display configuration described by the settings.
func (s Settings) Format() FormatConfig {
	return FormatConfig{
		Places:     s.DecimalPlaces,
		Grouping:   s.UseGrouping,
		StripZeros: s.StripTrailingZeros,
	}
}

// SettingsError is an error indicating an invalid setting.
type SettingsError struct {
	// Key is the name of the setting as it appears in settings files.
	Key string
	// Reason describes the constraint the value violates.
	Reason string
}

func (err *SettingsError) Error() string {
	return "`" + err.Key + "` " + err.Reason
}

// Session is one calculator session: a context, display settings, and the
// history of successful expressions. It also tracks whether the last
// evaluation failed, which a user interface shows as an error state until new
// input arrives. It is not safe to use a Session concurrently.
type Session struct {
	id      uuid.UUID
	ctx     *Context
	format  FormatConfig
	history *History
	parse   []ParseOption
	log     *slog.Logger

	last     string
	haveLast bool
	errState bool
}

// SessionOption is an option for creating a session.
type SessionOption func(*Session)

// WithLogger sets the logger that receives a debug record for every
// evaluation. By default nothing is logged.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithContextOptions applies additional options, such as a Ceiling, to the
// session's evaluation context.
func WithContextOptions(opts ...ContextOption) SessionOption {
	return func(s *Session) {
		s.ctx = s.ctx.Clone(opts...)
	}
}

// DefaultMaxDepth is the nesting limit for expressions evaluated by a
// Session.
const DefaultMaxDepth = 1000

// NewSession creates a session from validated settings.
func NewSession(cfg Settings, opts ...SessionOption) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		id:      uuid.New(),
		ctx:     NewContext(Prec(cfg.Precision)),
		format:  cfg.Format(),
		history: NewHistory(cfg.MaxHistory),
		parse:   []ParseOption{MaxDepth(DefaultMaxDepth)},
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session", s.id.String())
	return s, nil
}

// Evaluate parses and evaluates expr and formats the result. On success, expr
// is recorded in the history. On failure, the session enters the error state
// and the error can be passed to Classify.
func (s *Session) Evaluate(expr string) (string, error) {
	start := time.Now()
	s.history.Reset()
	out, err := s.evaluate(expr)
	if err != nil {
		s.errState = true
		s.haveLast = false
		s.log.Debug("evaluation failed",
			"expr", expr,
			"category", string(Classify(err)),
			"error", err,
			"elapsed", time.Since(start))
		return "", err
	}
	s.errState = false
	s.last, s.haveLast = out, true
	s.history.Record(expr)
	s.log.Debug("evaluated",
		"expr", expr,
		"result", out,
		"prec", s.ctx.Prec(),
		"elapsed", time.Since(start))
	return out, nil
}

func (s *Session) evaluate(expr string) (string, error) {
	e, err := ParseString(expr, s.parse...)
	if err != nil {
		return "", err
	}
	r := s.ctx.Eval(e)
	if r == nil {
		return "", s.ctx.Err()
	}
	return Format(r, s.format), nil
}

// Display evaluates expr and returns the text to show: the formatted result,
// or the message for the failure's category.
func (s *Session) Display(expr string) string {
	out, err := s.Evaluate(expr)
	if err != nil {
		return Classify(err).Message()
	}
	return out
}

// InErrorState reports whether the last evaluation failed.
func (s *Session) InErrorState() bool {
	return s.errState
}

// Last returns the formatted result of the last evaluation. The result is
// false if nothing has been evaluated since the session began or was cleared,
// or if the last evaluation failed.
func (s *Session) Last() (string, bool) {
	return s.last, s.haveLast
}

// Clear leaves the error state and forgets the last result.
func (s *Session) Clear() {
	s.errState = false
	s.last, s.haveLast = "", false
	s.history.Reset()
}

// History returns the session's history.
func (s *Session) History() *History {
	return s.history
}

// ID returns the identifier attached to the session's log records.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Prec returns the session's current precision.
func (s *Session) Prec() uint {
	return s.ctx.Prec()
}

// SetPrecision changes the precision for subsequent evaluations. Results
// already returned are unaffected.
func (s *Session) SetPrecision(prec uint) error {
	if err := validPrec(prec); err != nil {
		return err
	}
	s.ctx = s.ctx.Clone(Prec(prec))
	s.log.Debug("precision changed", "prec", prec)
	return nil
}

// Format returns the session's display configuration.
func (s *Session) Format() FormatConfig {
	return s.format
}

// SetFormat changes the display configuration for subsequent evaluations.
func (s *Session) SetFormat(cfg FormatConfig) {
	s.format = cfg
}
