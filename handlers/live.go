// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/newsdesk/cliparse"
	"github.com/danielhkuo/newsdesk/middleware"
	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/portal"
	"github.com/danielhkuo/newsdesk/syncstore"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
)

// subscribeFunc starts a subscription that calls send with each frame.
type subscribeFunc func(ctx context.Context, send func(models.LiveFrame)) (syncstore.Unsubscribe, error)

// LiveHandler pushes collection snapshots over WebSocket. Every committed
// change produces a full snapshot frame; closing the socket unsubscribes.
type LiveHandler struct {
	store    *syncstore.Store
	articles *ArticleHandler
	upgrader websocket.Upgrader
}

func NewLiveHandler(svc *portal.Service, cfg cliparse.Config) *LiveHandler {
	return &LiveHandler{
		store:    svc.Store(),
		articles: NewArticleHandler(svc, cfg),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Public content; CORS already allows any origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// collection returns the subscription for a public collection.
func (h *LiveHandler) collection(name string) (subscribeFunc, bool) {
	switch name {
	case models.CollectionNews:
		return func(ctx context.Context, send func(models.LiveFrame)) (syncstore.Unsubscribe, error) {
			return syncstore.Subscribe[models.Article](ctx, h.store, name, func(articles []models.Article) {
				views := make([]models.ArticleView, len(articles))
				for i, a := range articles {
					views[i] = h.articles.view(a)
				}
				send(models.LiveFrame{Collection: name, Documents: views})
			})
		}, true
	case models.CollectionPolls:
		return func(ctx context.Context, send func(models.LiveFrame)) (syncstore.Unsubscribe, error) {
			return syncstore.Subscribe[models.Poll](ctx, h.store, name, func(polls []models.Poll) {
				views := make([]models.PollView, len(polls))
				for i, p := range polls {
					views[i] = models.PollView{Poll: p, Tally: ComputeTally(p)}
				}
				send(models.LiveFrame{Collection: name, Documents: views})
			})
		}, true
	case models.CollectionSponsors:
		return liveCollection[models.Sponsor](h.store, name), true
	case models.CollectionAds:
		return liveCollection[models.AdSlot](h.store, name), true
	}
	return nil, false
}

func liveCollection[T any, PT syncstore.Entity[T]](store *syncstore.Store, name string) subscribeFunc {
	return func(ctx context.Context, send func(models.LiveFrame)) (syncstore.Unsubscribe, error) {
		return syncstore.Subscribe[T, PT](ctx, store, name, func(items []T) {
			send(models.LiveFrame{Collection: name, Documents: items})
		})
	}
}

func liveConfig[T any](store *syncstore.Store, key string, init func() T) subscribeFunc {
	return func(ctx context.Context, send func(models.LiveFrame)) (syncstore.Unsubscribe, error) {
		return syncstore.SubscribeValue(ctx, store, models.CollectionConfig, key, init, func(v T) {
			send(models.LiveFrame{Collection: models.CollectionConfig, ID: key, Documents: v})
		})
	}
}

// config returns the subscription for a config document.
func (h *LiveHandler) config(key string) (subscribeFunc, bool) {
	switch key {
	case models.ConfigPopup:
		return liveConfig(h.store, key, models.DefaultPopupConfig), true
	case models.ConfigLargePopup:
		return liveConfig(h.store, key, models.DefaultLargePopupConfig), true
	case models.ConfigActivity:
		return liveConfig(h.store, key, models.DefaultActivityConfig), true
	case models.ConfigFloatingBanner:
		return liveConfig(h.store, key, models.DefaultFloatingBannerConfig), true
	case models.ConfigPollBanner:
		return liveConfig(h.store, key, models.DefaultPollBannerConfig), true
	}
	return nil, false
}

// Collection handles GET /live/{collection}
func (h *LiveHandler) Collection(w http.ResponseWriter, r *http.Request) {
	subscribe, ok := h.collection(r.PathValue("collection"))
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown collection")
		return
	}
	h.serve(w, r, subscribe)
}

// Config handles GET /live/config/{key}
// Frames arrive only once the document has been saved.
func (h *LiveHandler) Config(w http.ResponseWriter, r *http.Request) {
	subscribe, ok := h.config(r.PathValue("key"))
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown config key")
		return
	}
	h.serve(w, r, subscribe)
}

func (h *LiveHandler) serve(w http.ResponseWriter, r *http.Request, subscribe subscribeFunc) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	writeErr := make(chan error, 1)
	send := func(frame models.LiveFrame) {
		conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		if err := conn.WriteJSON(frame); err != nil {
			select {
			case writeErr <- err:
			default:
			}
		}
	}

	unsubscribe, err := subscribe(r.Context(), send)
	if err != nil {
		slog.Error("failed to subscribe", "error", err, "path", r.URL.Path)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscription failed"),
			time.Now().Add(liveWriteWait))
		return
	}
	defer unsubscribe()

	// Clients only send control frames; reading drives pong handling
	// and notices when the peer goes away.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(livePongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(livePongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-readDone:
			return
		case err := <-writeErr:
			slog.Info("live subscriber dropped", "error", err, "path", r.URL.Path)
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait)); err != nil {
				return
			}
		}
	}
}
