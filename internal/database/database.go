package database

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Databases : poignées injectées dans les composants. Le cycle de vie
// (connexion/fermeture) appartient au point d'entrée, pas au cœur métier.
type Databases struct {
	MongoClient *mongo.Client
	Mongo       *mongo.Database
	Redis       *redis.Client
	Elastic     *elasticsearch.Client
}

// Connect ouvre les connexions MongoDB, Redis et Elasticsearch.
// Elasticsearch est optionnel : sans ELASTIC_URL on continue sans lui.
func Connect(ctx context.Context) (*Databases, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// 1. MongoDB
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "flexgym"
	}
	log.Println("✅ Connecté à MongoDB :", dbName)

	dbs := &Databases{
		MongoClient: client,
		Mongo:       client.Database(dbName),
	}

	// 2. Redis
	dbs.Redis = redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_HOST"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if err := dbs.Redis.Ping(ctx).Err(); err != nil {
		log.Fatal("❌ Erreur connexion Redis:", err)
	}
	log.Println("✅ Connecté à Redis")

	// 3. Elasticsearch (optionnel)
	dbs.Elastic = connectElastic()

	log.Println("✅ Toutes les bases de données sont connectées")
	return dbs, nil
}

func connectElastic() *elasticsearch.Client {
	url := os.Getenv("ELASTIC_URL")
	if url == "" {
		log.Println("⚠️ ELASTIC_URL absent, recherche support-desk désactivée")
		return nil
	}

	cfg := elasticsearch.Config{
		Addresses: []string{url},
		Username:  os.Getenv("ELASTIC_USER"),
		Password:  os.Getenv("ELASTIC_PASSWORD"),
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		log.Println("❌ Erreur création client Elasticsearch:", err)
		return nil
	}

	res, err := client.Info()
	if err != nil {
		log.Println("❌ Erreur connexion Elasticsearch:", err)
		return nil
	}
	defer res.Body.Close()

	log.Println("✅ Connecté à Elasticsearch")
	return client
}

// Close ferme proprement toutes les connexions.
func (d *Databases) Close(ctx context.Context) {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			log.Println("⚠️ Erreur fermeture Redis:", err)
		} else {
			log.Println("🔌 Connexion Redis fermée")
		}
	}
	if d.MongoClient != nil {
		if err := d.MongoClient.Disconnect(ctx); err != nil {
			log.Println("⚠️ Erreur fermeture MongoDB:", err)
		} else {
			log.Println("🔌 Connexion MongoDB fermée")
		}
	}
}
