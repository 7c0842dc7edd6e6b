/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"net/http"
	"time"

	"fi-dashboard-go/internal/chat"
	"fi-dashboard-go/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter wires the middleware stack and every route
func NewRouter(cfg models.ServerConfig, svc *FinanceService, assistant *chat.Orchestrator) *gin.Engine {
	r := gin.New()

	r.ForwardedByClientIP = false
	r.HandleMethodNotAllowed = true

	r.Use(requestid.New())
	r.Use(ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/healthz", "/metrics"},
		Context: func(c *gin.Context) []zap.Field {
			return []zap.Field{zap.String("request_id", requestid.Get(c))}
		},
	}))
	r.Use(ginzap.RecoveryWithZap(zap.L(), true))

	if len(cfg.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: []string{"OPTIONS", "GET", "POST"},
			AllowHeaders: []string{"Origin", "Content-Length", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.NoRoute(func(c *gin.Context) {
		abort(c, http.StatusNotFound, "no such endpoint")
	})
	r.NoMethod(func(c *gin.Context) {
		abort(c, http.StatusMethodNotAllowed, "method not allowed for this endpoint")
	})

	_ = r.SetTrustedProxies(nil)

	h := &handler{svc: svc, chat: assistant}

	r.GET("/healthz", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.EnablePprof {
		pprof.Register(r, "/debug/pprof")
	}

	v1 := r.Group("/v1")
	{
		v1.GET("/dashboard", h.dashboard)
		v1.GET("/fds", h.listFDs)
		v1.POST("/fds", h.createFD)
		v1.GET("/transactions", h.transactions)
		v1.POST("/expenses", h.createExpense)
		v1.POST("/income", h.createIncome)
		v1.GET("/assets", h.listAssets)
		v1.POST("/assets", h.createAsset)
	}

	chatGroup := v1.Group("/chat")
	{
		chatGroup.GET("/messages", h.chatMessages)
		chatGroup.POST("/messages", h.sendChatMessage)
		chatGroup.POST("/confirm", h.confirmChatAction)
		chatGroup.POST("/cancel", h.cancelChatAction)
	}

	return r
}
