package logsvc

import (
	"log"
	"strconv"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/core/user"
)

// RollbarLogger prints every entry to std and reports it to rollbar, unless reporting
// is disabled.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

// NewRollbarLogger configures rollbar from conf. Reporting is off in debug mode, in test
// mode and without a token.
func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Portal.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	l := &RollbarLogger{std: std}
	l.Enable(!conf.Debug && !conf.TestMode && conf.RollbarToken != "")
	return l
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Close waits for pending reports to be sent.
func (l RollbarLogger) Close() {
	rollbar.Close()
}

// split separates the user an entry relates to from the other args.
// expected fmt: msg | error, map[string]interface{}, user.User
func split(args []interface{}) (*user.User, []interface{}) {
	var usr *user.User
	rest := make([]interface{}, 0, len(args))
	for _, arg := range args {
		if u, ok := arg.(user.User); ok {
			if usr == nil { // only keep one User
				usr = &u
			}
			continue
		}
		rest = append(rest, arg)
	}
	return usr, rest
}

func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	usr, rest := split(args)
	if usr != nil {
		rollbar.SetPerson(strconv.Itoa(usr.ID), usr.FullName(), usr.Email)
	} else {
		rollbar.ClearPerson()
	}
	return append([]interface{}{msg}, rest...)
}

func (l RollbarLogger) print(level, msg string, args []interface{}) {
	usr, rest := split(args)
	if usr != nil {
		l.std.Printf("%s: %s [user %d %s]\n", level, msg, usr.ID, usr.Email)
	} else {
		l.std.Printf("%s: %s\n", level, msg)
	}
	for _, arg := range rest {
		l.std.Printf("\t%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.print("DEBUG", msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print("INFO", msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print("WARN", msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print("ERROR", msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print("FATAL", msg, args)
	rollbar.Close()
	l.std.Fatal(msg)
}
