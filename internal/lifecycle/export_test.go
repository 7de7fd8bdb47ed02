package lifecycle

var NotifyContextFrom = notifyContext
