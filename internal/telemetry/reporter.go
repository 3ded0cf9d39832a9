package telemetry

import "github.com/qulab/GoSigGen/internal/logging"

// Reporter captures monitor samples.
type Reporter interface {
	Report(sample Sample)
}

// StdoutReporter prints monitor samples through the structured logger.
type StdoutReporter struct {
	logger logging.Logger
}

// NewStdoutReporter builds a stdout reporter with the provided logger.
func NewStdoutReporter(logger logging.Logger) StdoutReporter {
	if logger == nil {
		logger = logging.Default()
	}
	return StdoutReporter{logger: logger}
}

func (r StdoutReporter) Report(sample Sample) {
	fields := []logging.Field{
		{Key: "subsystem", Value: "telemetry"},
		{Key: "channel", Value: sample.Channel},
		{Key: "temp_c", Value: sample.TempC},
	}
	if sample.RefSource != "" {
		fields = append(fields,
			logging.Field{Key: "ref_source", Value: sample.RefSource},
			logging.Field{Key: "ref_mhz", Value: sample.RefMHz},
		)
	}
	if sample.PLL != "" {
		fields = append(fields, logging.Field{Key: "pll", Value: sample.PLL})
	}
	r.logger.Info("monitor sample", fields...)
}

// MultiReporter fans out samples to multiple destinations.
type MultiReporter []Reporter

// Report forwards the sample to each configured reporter.
func (m MultiReporter) Report(sample Sample) {
	for _, r := range m {
		if r != nil {
			r.Report(sample)
		}
	}
}
