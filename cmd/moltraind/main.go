package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/molstud/moltrain/cmd/moltraind/handlers"
	"github.com/molstud/moltrain/pkg/api/auth"
	"github.com/molstud/moltrain/pkg/api/ws"
	kcf "github.com/molstud/moltrain/pkg/configs/server"
	kpool "github.com/molstud/moltrain/pkg/conn/db/postgres/pool"
	"github.com/molstud/moltrain/pkg/domain/chem"
	"github.com/molstud/moltrain/pkg/domain/session"
	"github.com/molstud/moltrain/pkg/domain/storage"
	"github.com/molstud/moltrain/pkg/domain/storage/postgres"
	"github.com/molstud/moltrain/pkg/domain/training"
	"github.com/molstud/moltrain/pkg/domain/training/engine/sim"
	"github.com/molstud/moltrain/pkg/utils/echoutil"
	"github.com/molstud/moltrain/pkg/utils/filewatch"
)

func main() {

	configPath := flag.String("config-path", "", "server config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	flag.Parse()

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())
	e.Use(middleware.CORS())

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	// read configfile
	conf, err := kcf.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	{
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, *configPath)
		if err != nil {
			log.Fatalf("can not watch configration: %s", err)
		}
		defer cancel()
		context.AfterFunc(wctx, func() {
			log.Println("shutting down. (config file updated, or signal received)")
			graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := e.Shutdown(graceful); err != nil {
				log.Printf("error on shutdown: %s", err)
			}
		})
	}

	// get db accessor
	pool, err := kpool.New(ctx, conf.Database.URI)
	if err != nil {
		log.Fatalf("can not connect to database: %s", err)
	}
	defer pool.Close()
	if err := postgres.Bootstrap(ctx, pool); err != nil {
		log.Fatalf("can not prepare database schema: %s", err)
	}
	db := postgres.New(pool)

	conv := chem.New()
	issuer := auth.NewIssuer(conf.Auth.SignKey, conf.Auth.TokenLifetime.AsDuration())
	gateway := ws.New()

	// the registry stops trainings and the supervisor notifies sessions,
	// so one side is bound late.
	stopper := &trainingStopperRef{}
	registry := session.NewRegistry(
		ctx, gateway, stopper, userDataPurger{users: db.Users()},
		session.WithTick(conf.Session.Tick.AsDuration()),
		session.WithIdleLimit(conf.Session.IdleLimit.AsDuration()),
	)
	supervisor := training.New(
		ctx,
		sim.New(sim.WithEpochLength(conf.Training.EpochLength.AsDuration())),
		db.Fittings(),
		registry,
	)
	stopper.stopper = supervisor

	checker := sessionChecker{registry: registry}
	authorized := auth.Middleware(issuer, checker)

	// handlers
	{
		e.POST("/api/users/", handlers.LoginHandler(
			db.Users(), db.Molecules(), conv, registry, issuer,
		))
		e.DELETE("/api/users/:userId/", handlers.DeleteUserHandler(db.Users(), registry, "userId"), authorized)
	}

	{
		u := e.Group("/api/users/:userId", authorized)
		u.GET("/molecules/", handlers.GetMoleculesHandler(db.Molecules(), "userId"))
		u.PUT("/molecules/", handlers.PutMoleculeHandler(db.Molecules(), conv, "userId"))
		u.POST("/analyze/", handlers.AnalyzeHandler(db.Molecules(), db.Fittings(), "userId"))

		u.GET("/models/", handlers.GetModelsHandler(db.Models(), "userId"))
		u.POST("/models/", handlers.AddModelHandler(db.Models(), "userId"))

		u.GET("/fittings/", handlers.GetFittingsHandler(db.Fittings(), "userId"))

		u.POST("/train/", handlers.StartTrainingHandler(supervisor, db.Models(), "userId"))
		u.PATCH("/train/", handlers.ContinueTrainingHandler(supervisor, "userId"))
		u.DELETE("/train/", handlers.StopTrainingHandler(supervisor, "userId"))
	}

	{
		e.GET("/api/datasets/", handlers.GetDatasetsHandler(db.Datasets()), authorized)
		e.GET("/api/datasets/:datasetId/histograms/", handlers.GetHistogramsHandler(db.Datasets(), "datasetId"), authorized)
		e.GET("/api/baseModels/", handlers.GetBaseModelsHandler(db.BaseModels()), authorized)

		e.GET("/api/scoreboard/", handlers.GetScoreboardHandler(db.Scoreboard()), authorized)
		e.DELETE("/api/scoreboard/", handlers.DeleteScoreboardHandler(db.Scoreboard()), authorized)
		e.DELETE("/api/scoreboard/:fittingId/", handlers.DeleteScoreboardFittingHandler(db.Scoreboard(), "fittingId"), authorized)

		e.POST("/api/molecule3d/", handlers.Molecule3DHandler(conv), authorized)
	}

	{
		// a dropped socket (page reload, flaky network) does not end the
		// session. Inactivity or an explicit account delete does.
		e.GET("/api/ws/", gateway.Handler(
			auth.WebsocketResolve(issuer, checker),
			nil,
		))
	}

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", conf.Port)))
}

// trainingStopperRef delays binding the supervisor, which itself needs the
// session registry to notify.
type trainingStopperRef struct {
	stopper session.TrainingStopper
}

func (r *trainingStopperRef) Stop(userId string) bool {
	if r.stopper == nil {
		return false
	}
	return r.stopper.Stop(userId)
}

type userDataPurger struct {
	users storage.UserInterface
}

func (p userDataPurger) DeleteUserData(ctx context.Context, userId string) error {
	return p.users.Delete(ctx, userId)
}

type sessionChecker struct {
	registry *session.Registry
}

func (s sessionChecker) Alive(userId string) bool { return s.registry.Alive(userId) }

func (s sessionChecker) Touch(userId string) { s.registry.Tracker().Touch(userId) }
