package main

import (
	"fmt"

	"github.com/ecohabit/backend/internal/domain/gamify"
	"github.com/ecohabit/backend/internal/model"
	"github.com/urfave/cli/v2"
)

func (s *srv) logAction(cctx *cli.Context) error {
	var req *model.LogActionRequest
	if key := cctx.String("preset"); key != "" {
		preset, ok := gamify.PresetAction(key)
		if !ok {
			return fmt.Errorf("unknown preset %s", key)
		}

		req = preset.ToLogActionRequest()
	} else {
		req = &model.LogActionRequest{
			Name:        cctx.Args().First(),
			Points:      cctx.Int("points"),
			Category:    cctx.String("category"),
			Description: cctx.String("description"),
			CarbonSaved: cctx.Float64("carbon"),
		}
	}

	resp, err := s.storeDomain.LogAction(s.ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(cctx.App.Writer, "Logged %s for %d points, level %d\n",
		resp.Action.Name, resp.Action.Points, resp.Level)
	if resp.LeveledUp {
		fmt.Fprintf(cctx.App.Writer, "Level up! You reached level %d\n", resp.Level)
	}

	for _, achievement := range resp.UnlockedAchievements {
		fmt.Fprintf(cctx.App.Writer, "Achievement unlocked: %s\n", achievement.Name)
	}

	return nil
}

func (s *srv) showStatus(cctx *cli.Context) error {
	session, err := s.identityDomain.GetSession(s.ctx, &model.GetSessionRequest{})
	if err != nil {
		return err
	}

	state, err := s.storeDomain.GetState(s.ctx, &model.GetStateRequest{})
	if err != nil {
		return err
	}

	w := cctx.App.Writer
	user := state.State.User
	if session.User != nil {
		fmt.Fprintf(w, "Signed in as %s <%s>\n", session.User.Name, session.User.Email)
	} else {
		fmt.Fprintln(w, "Not signed in")
	}

	if session.UsingFallback {
		fmt.Fprintln(w, "Remote backend unavailable, using local storage")
	}

	fmt.Fprintf(w, "Level %d, %d points, %d day streak\n", user.Level, user.Points, user.Streak)
	fmt.Fprintf(w, "Actions logged: %d\n", len(state.State.Actions))

	impact := state.State.ImpactStats
	fmt.Fprintf(w, "Carbon %.1f kg, water %.1f L, waste %.1f kg, energy %.1f kWh, trees %.0f\n",
		impact.CarbonSaved, impact.WaterSaved, impact.WasteSaved, impact.EnergySaved, impact.TreesPlanted)

	fmt.Fprintf(w, "Sync: %s", state.SyncStatus.Status)
	if state.SyncStatus.Message != "" {
		fmt.Fprintf(w, " (%s)", state.SyncStatus.Message)
	}
	fmt.Fprintln(w)

	return nil
}

func (s *srv) sync(cctx *cli.Context) error {
	resp, err := s.storeDomain.SyncWithSupabase(s.ctx, &model.SyncRequest{})
	if err != nil {
		return err
	}

	if resp.SyncStatus.Status == model.SyncError {
		return fmt.Errorf("sync failed: %s", resp.SyncStatus.Message)
	}

	fmt.Fprintf(cctx.App.Writer, "Synchronized, pulled %d and pushed %d actions\n", resp.Pulled, resp.Pushed)
	return nil
}

func (s *srv) signIn(cctx *cli.Context) error {
	resp, err := s.identityDomain.SignIn(s.ctx, &model.SignInRequest{
		Email:    cctx.String("email"),
		Password: cctx.String("password"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cctx.App.Writer, "Signed in as %s\n", resp.User.Name)
	return nil
}

func (s *srv) signUp(cctx *cli.Context) error {
	confirm := cctx.String("confirm-password")
	if confirm == "" {
		confirm = cctx.String("password")
	}

	resp, err := s.identityDomain.SignUp(s.ctx, &model.SignUpRequest{
		Email:           cctx.String("email"),
		Username:        cctx.String("username"),
		Password:        cctx.String("password"),
		ConfirmPassword: confirm,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cctx.App.Writer, "Welcome %s\n", resp.User.Name)
	return nil
}

func (s *srv) signOut(cctx *cli.Context) error {
	if _, err := s.identityDomain.SignOut(s.ctx, &model.SignOutRequest{}); err != nil {
		return err
	}

	fmt.Fprintln(cctx.App.Writer, "Signed out")
	return nil
}
