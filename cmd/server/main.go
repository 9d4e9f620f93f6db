package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/marketloop/marketloop/imagestore"
	"github.com/marketloop/marketloop/server"
	"github.com/marketloop/marketloop/server/middlewares"
	"github.com/marketloop/marketloop/utils"
	"github.com/marketloop/marketloop/utils/dotenv"
	. "github.com/marketloop/marketloop/utils/flag"
	. "github.com/marketloop/marketloop/utils/log"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

func cleanup() {
	utils.CloseProfiler()
	utils.CloseTracer()
	Log.Info("api server shutdown")
}

func main() {
	defer cleanup()

	ParseFlags()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	if os.Getenv("MARKETLOOP_JWT_SECRET") == "" {
		Log.Fatal("MARKETLOOP_JWT_SECRET must be configured")
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect to database: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	var images imagestore.ImageStore
	if dotenv.IsProdEnv() {
		s3Store, err := imagestore.NewS3ImageStore()
		if err != nil {
			Log.Fatal("fail to set up image store: ", err)
		}
		images = s3Store
	} else {
		images = &imagestore.FakeImageStore{}
	}

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(cors.Default())
	if dotenv.IsProdEnv() {
		utils.StartTracer()
		utils.StartProfiler()
		router.Use(gintrace.Middleware(ServiceName))
	}

	auth := middlewares.JWT()
	if ByPassAuth {
		// Local development only: trust the "sub" header as-is.
		auth = func(c *gin.Context) { c.Next() }
	}

	api := &server.API{DB: db, Images: images}
	api.RegisterRoutes(router, auth)

	router.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	Log.Info("api server starts up")
	router.Run(":8080")
}
