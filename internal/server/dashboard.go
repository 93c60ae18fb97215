package server

import (
	"net/http"

	"zakatportal/pkg/types"
)

func (s *Service) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())

	data := &types.DashboardPageData{
		BasePageData: types.BasePageData{Title: "Dashboard", Notice: notice(r)},
		Greeting:     sess.Greeting(),
	}

	s.render(w, r, "page.dashboard", data)
}
