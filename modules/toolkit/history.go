package toolkit

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/tokenkit/handler"
	"github.com/dmitrymomot/tokenkit/pkg/qrcode"
	"github.com/dmitrymomot/tokenkit/svc/history"
)

type listHistoryRequest struct {
	Limit int `query:"limit"`
}

type recordRequest struct {
	ID uuid.UUID `path:"id"`
}

type qrRequest struct {
	ID   uuid.UUID `path:"id"`
	Size int       `query:"size"`
}

type historyResponse struct {
	Records []history.Record `json:"records"`
}

func (a *api) listHistory(ctx handler.Context, req listHistoryRequest) handler.Response {
	records, err := a.svc.History(ctx, req.Limit)
	if err != nil {
		return handler.Error(err)
	}
	if records == nil {
		records = []history.Record{}
	}
	return handler.JSON(historyResponse{Records: records})
}

func (a *api) deleteHistory(ctx handler.Context, req recordRequest) handler.Response {
	if err := a.svc.DeleteHistory(ctx, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

func (a *api) clearHistory(ctx handler.Context, _ struct{}) handler.Response {
	if err := a.svc.ClearHistory(ctx); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

func (a *api) historyQR(ctx handler.Context, req qrRequest) handler.Response {
	rec, err := a.svc.HistoryRecord(ctx, req.ID)
	if err != nil {
		return handler.Error(err)
	}
	png, err := qrcode.GenerateWithLevel(rec.Token, req.Size, qrcode.Low)
	if err != nil {
		return handler.Error(err)
	}
	return handler.Blob("image/png", png)
}
