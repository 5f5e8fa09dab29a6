package shared

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger returns l, or an entry that discards everything when l is nil.
func Logger(l *logrus.Entry) *logrus.Entry {
	if l != nil {
		return l
	}
	nop := logrus.New()
	nop.SetOutput(io.Discard)
	return logrus.NewEntry(nop)
}
