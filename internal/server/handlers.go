package server

import (
	"net/http"
	"sort"

	"github.com/msgtv/Gifts-Buyer/pkg/httpx/reply"
)

func (s Server) getV1Status(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, s.detector.Status())
	return nil
}

func (s Server) getV1Gifts(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	known, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	gifts := toGiftResponses(known)
	sort.Slice(gifts, func(i, j int) bool { return gifts[i].ID < gifts[j].ID })

	reply.JSON(ctx, w, http.StatusOK, giftsResponse{Gifts: gifts, Total: len(gifts)})
	return nil
}
