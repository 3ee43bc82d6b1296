package app

import (
	"github.com/vancomm/minesweeper-classic/internal/handlers"
	"github.com/vancomm/minesweeper-classic/internal/repository"
)

func (a *App) loadRoutes() {
	var records handlers.Recorder
	if a.db != nil {
		repo := repository.New(a.db)
		records = repo

		rh := handlers.NewRecordsHandler(a.logger, repo)
		a.router.HandleFunc("GET /records", rh.GetRecords)
	}

	game := handlers.NewGameHandler(
		a.logger, a.sessions, a.cookies, a.ws, records,
	)

	a.router.HandleFunc("POST /game", game.NewGame)
	a.router.HandleFunc("GET /game/{id}", game.Fetch)
	a.router.HandleFunc("POST /game/{id}/click", game.Click)
	a.router.HandleFunc("POST /game/{id}/flag", game.Flag)
	a.router.HandleFunc("POST /game/{id}/press", game.Press)
	a.router.HandleFunc("POST /game/{id}/release", game.Release)
	a.router.HandleFunc("POST /game/{id}/reset", game.Reset)
	a.router.HandleFunc("DELETE /game/{id}", game.Close)
	a.router.HandleFunc("GET /game/{id}/connect", game.ConnectWS)
}
