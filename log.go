package steamspy

import "github.com/sirupsen/logrus"

func loggerOrDefault(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return logrus.StandardLogger()
	}
	return l
}

func (arc *Archiver) logger() logrus.FieldLogger {
	return loggerOrDefault(arc.Logger)
}

// logf prints a progress line when logging is enabled.
func (arc *Archiver) logf(format string, args ...interface{}) {
	if arc.EnableLog {
		arc.logger().Infof(format, args...)
	}
}
