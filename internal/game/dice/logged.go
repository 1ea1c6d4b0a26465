package dice

import "go.uber.org/zap"

// LoggedSource wraps a Source and logs every draw at debug level.
// Logging never alters the sequence produced by the wrapped Source.
type LoggedSource struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedSource creates a LoggedSource that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedSource(src Source, logger *zap.Logger) *LoggedSource {
	return &LoggedSource{src: src, logger: logger}
}

// Intn draws from the wrapped Source and logs the bound and result.
func (l *LoggedSource) Intn(n int) int {
	v := l.src.Intn(n)
	l.logger.Debug("dice draw",
		zap.String("kind", "intn"),
		zap.Int("n", n),
		zap.Int("result", v),
	)
	return v
}

// Float64 draws from the wrapped Source and logs the result.
func (l *LoggedSource) Float64() float64 {
	v := l.src.Float64()
	l.logger.Debug("dice draw",
		zap.String("kind", "float64"),
		zap.Float64("result", v),
	)
	return v
}
