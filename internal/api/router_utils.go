package api

import (
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// LogRoutes walks the router and logs every registered route, so the
// startup log shows the exact HTTP surface being served
func LogRoutes(router *mux.Router, log *logrus.Logger) {
	_ = router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}

		methods, err := route.GetMethods()
		methodStr := "ANY"
		if err == nil && len(methods) > 0 {
			methodStr = strings.Join(methods, ",")
		}

		log.WithFields(logrus.Fields{
			"method": methodStr,
			"path":   pathTemplate,
		}).Debug("Route registered")
		return nil
	})
}
