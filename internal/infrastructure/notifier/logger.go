package notifier

import "github.com/msgtv/Gifts-Buyer/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
