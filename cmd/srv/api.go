package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecohabit/backend/internal/common"
	"github.com/ecohabit/backend/internal/middleware"
	"github.com/ecohabit/backend/pkg/prometheus"
	"github.com/ecohabit/backend/pkg/router"
	"github.com/ecohabit/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.loadRouter()

	cronJobManager := s.newCronJobManager()
	go cronJobManager.Start(ctx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.configs.ApiServer.Host, s.configs.ApiServer.Port),
		Handler:           s.router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on port: %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stop")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Before(middleware.WithRequestUser())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())
	s.router.Handle("GET /metrics", prometheus.NewHandler(prometheus.NewRegistry(common.PromCollectors()...)))

	// Store API
	{
		router.GET(s.router, "/getState", s.storeDomain.GetState)
		router.GET(s.router, "/getSyncStatus", s.storeDomain.GetSyncStatus)
		router.GET(s.router, "/getPresetActions", s.storeDomain.GetPresetActions)
		router.GET(s.router, "/getDailyGoals", s.storeDomain.GetDailyGoals)
		router.GET(s.router, "/getEcoTip", s.storeDomain.GetEcoTip)
		router.GET(s.router, "/getLeaderboard", s.storeDomain.GetLeaderboard)

		router.POST(s.router, "/logAction", s.storeDomain.LogAction)
		router.POST(s.router, "/joinChallenge", s.storeDomain.JoinChallenge)
		router.POST(s.router, "/updateChallengeProgress", s.storeDomain.UpdateChallengeProgress)
		router.POST(s.router, "/completeQuestStep", s.storeDomain.CompleteQuestStep)
		router.POST(s.router, "/markNotificationRead", s.storeDomain.MarkNotificationRead)
		router.POST(s.router, "/clearAllNotifications", s.storeDomain.ClearAllNotifications)
		router.POST(s.router, "/toggleDarkMode", s.storeDomain.ToggleDarkMode)
		router.POST(s.router, "/updateSettings", s.storeDomain.UpdateSettings)
		router.POST(s.router, "/updateUser", s.storeDomain.UpdateUser)
		router.POST(s.router, "/likePost", s.storeDomain.LikePost)
		router.POST(s.router, "/createPost", s.storeDomain.CreatePost)
		router.POST(s.router, "/addFriend", s.storeDomain.AddFriend)
		router.POST(s.router, "/sync", s.storeDomain.SyncWithSupabase)
	}

	// Identity API
	{
		router.GET(s.router, "/getSession", s.identityDomain.GetSession)
		router.GET(s.router, "/checkUsername", s.identityDomain.CheckUsernameAvailable)

		router.POST(s.router, "/signIn", s.identityDomain.SignIn)
		router.POST(s.router, "/signUp", s.identityDomain.SignUp)
		router.POST(s.router, "/signOut", s.identityDomain.SignOut)
		router.POST(s.router, "/resetPassword", s.identityDomain.ResetPassword)
	}
}
