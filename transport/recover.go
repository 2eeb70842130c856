package transport

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/predmove/oerror"
	"github.com/sirupsen/logrus"
)

// recoverSession reports a panic in a session goroutine to sentry. It must be deferred directly.
func recoverSession(log logrus.FieldLogger, connType string, id uint32) {
	if err := recover(); err != nil {
		log.Errorf("%s session panic: %v", connType, err)
		hub := sentry.CurrentHub().Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("conn_type", connType)
			scope.SetTag("session", fmt.Sprint(id))
		})

		hub.Recover(oerror.New("%v", err))
		hub.Flush(time.Second * 5)
	}
}
