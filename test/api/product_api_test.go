package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mkravets/product-catalog/internal/adapters/cache"
	"github.com/mkravets/product-catalog/internal/adapters/repository"
	"github.com/mkravets/product-catalog/internal/domain"
	"github.com/mkravets/product-catalog/internal/routing"
	"github.com/mkravets/product-catalog/internal/service"
	"github.com/mkravets/product-catalog/testhelpers"
)

const cacheTTL = time.Hour

type ApiTestSuite struct {
	suite.Suite
	pgContainer    *testhelpers.PostgresContainer
	cacheContainer *testhelpers.RedisContainer
	cache          *redis.Client
	db             *sql.DB
	server         *httptest.Server
	client         *http.Client
	ctx            context.Context
}

func (suite *ApiTestSuite) SetupSuite() {
	suite.ctx = context.Background()

	pgContainer, err := testhelpers.CreatePostgresContainer(suite.ctx)
	require.NoError(suite.T(), err)
	suite.pgContainer = pgContainer

	redisContainer, err := testhelpers.CreateRedisContainer(suite.ctx)
	require.NoError(suite.T(), err)
	suite.cacheContainer = redisContainer

	databaseClient, err := sql.Open("postgres", pgContainer.ConnectionString)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), repository.RunMigrations(databaseClient))
	suite.db = databaseClient

	suite.cache = redis.NewClient(&redis.Options{
		Addr: redisContainer.ConnectionString,
		DB:   0,
	})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := repository.NewPostgresRepository(databaseClient)
	redisCache := cache.NewRedisCache(suite.cache)
	catalog := service.NewCatalogService(repo, redisCache, cacheTTL, logger)

	products := routing.NewProductHandler(catalog, logger)
	health := routing.NewHealthHandler(repo, redisCache, logger)
	router := routing.NewRouter(products, health).SetupRoutes()

	suite.server = httptest.NewServer(routing.RequestLogger(logger)(router))
	suite.client = &http.Client{Timeout: 5 * time.Second}
}

func (suite *ApiTestSuite) TearDownSuite() {
	suite.server.Close()
	suite.pgContainer.Terminate(suite.ctx)
	suite.cacheContainer.Terminate(suite.ctx)
}

func (suite *ApiTestSuite) SetupSubTest() {
	_, err := suite.db.Exec("TRUNCATE TABLE products")
	if err != nil {
		suite.T().Fatal(err)
	}
	_, err = suite.cache.FlushDB(suite.ctx).Result()
	if err != nil {
		suite.T().Fatal(err)
	}
}

func TestApiTestSuite(t *testing.T) {
	suite.Run(t, new(ApiTestSuite))
}

func (suite *ApiTestSuite) makeRequest(method, path string, body any) *http.Response {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewBuffer(data)
	}
	req, err := http.NewRequest(method, suite.server.URL+path, reader)
	require.NoError(suite.T(), err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := suite.client.Do(req)
	require.NoError(suite.T(), err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type productEnvelope struct {
	Message string         `json:"message"`
	Product domain.Product `json:"product"`
	Deleted domain.Product `json:"deleted"`
}

func (suite *ApiTestSuite) createProduct(name string) domain.Product {
	resp := suite.makeRequest(http.MethodPost, "/products", map[string]any{
		"name":        name,
		"description": "Blue ink",
		"quantity":    100,
		"price":       1.50,
		"category":    "Office",
	})
	require.Equal(suite.T(), http.StatusCreated, resp.StatusCode)
	return decodeBody[productEnvelope](suite.T(), resp).Product
}

func (suite *ApiTestSuite) TestProductLifecycle() {
	t := suite.T()

	suite.Run("create then read, second read served from cache", func() {
		created := suite.createProduct("Pen")
		assert.Positive(t, created.Id)
		assert.Equal(t, "Pen", created.Name)

		resp := suite.makeRequest(http.MethodGet, fmt.Sprintf("/products/%d", created.Id), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		fetched := decodeBody[domain.Product](t, resp)
		assert.Equal(t, created.Id, fetched.Id)

		// remove the row behind the cache's back: a served read proves the
		// store was not consulted
		_, err := suite.db.Exec("DELETE FROM products WHERE id = $1", created.Id)
		require.NoError(t, err)

		resp = suite.makeRequest(http.MethodGet, fmt.Sprintf("/products/%d", created.Id), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		cachedRead := decodeBody[domain.Product](t, resp)
		assert.Equal(t, "Pen", cachedRead.Name)
	})

	suite.Run("update is visible on the very next read", func() {
		created := suite.createProduct("Pen")

		// prime the cache with the pre-update value
		resp := suite.makeRequest(http.MethodGet, fmt.Sprintf("/products/%d", created.Id), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = suite.makeRequest(http.MethodPut, fmt.Sprintf("/products/%d", created.Id), map[string]any{
			"quantity": 25,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		updated := decodeBody[productEnvelope](t, resp)
		assert.Equal(t, 25, updated.Product.Quantity)

		resp = suite.makeRequest(http.MethodGet, fmt.Sprintf("/products/%d", created.Id), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		fetched := decodeBody[domain.Product](t, resp)
		assert.Equal(t, 25, fetched.Quantity)
	})

	suite.Run("delete evicts the cache and later reads are not found", func() {
		created := suite.createProduct("Pen")

		resp := suite.makeRequest(http.MethodDelete, fmt.Sprintf("/products/%d", created.Id), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		envelope := decodeBody[productEnvelope](t, resp)
		assert.Equal(t, "Product deleted successfully", envelope.Message)
		assert.Equal(t, created.Id, envelope.Deleted.Id)

		resp = suite.makeRequest(http.MethodGet, fmt.Sprintf("/products/%d", created.Id), nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeBody[map[string]string](t, resp)
		assert.Equal(t, "Product not found", body["error"])
	})

	suite.Run("mutations invalidate the cached collection", func() {
		suite.createProduct("Pen")

		resp := suite.makeRequest(http.MethodGet, "/products", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		listing := decodeBody[[]domain.Product](t, resp)
		require.Len(t, listing, 1)

		suite.createProduct("Notebook")

		resp = suite.makeRequest(http.MethodGet, "/products", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		listing = decodeBody[[]domain.Product](t, resp)
		assert.Len(t, listing, 2)
	})
}

func (suite *ApiTestSuite) TestValidation() {
	t := suite.T()

	suite.Run("non-numeric product id", func() {
		resp := suite.makeRequest(http.MethodGet, "/products/abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody[map[string]string](t, resp)
		assert.Equal(t, "Invalid product id", body["error"])
	})

	suite.Run("delete of a missing product", func() {
		resp := suite.makeRequest(http.MethodDelete, "/products/4242", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeBody[map[string]string](t, resp)
		assert.Equal(t, "Product not found", body["error"])
	})

	suite.Run("negative quantity patch never reaches the store", func() {
		created := suite.createProduct("Pen")

		resp := suite.makeRequest(http.MethodPut, fmt.Sprintf("/products/%d", created.Id), map[string]any{
			"quantity": -5,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()

		resp = suite.makeRequest(http.MethodGet, fmt.Sprintf("/products/%d", created.Id), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		fetched := decodeBody[domain.Product](t, resp)
		assert.Equal(t, 100, fetched.Quantity)
	})

	suite.Run("empty patch is rejected", func() {
		created := suite.createProduct("Pen")

		resp := suite.makeRequest(http.MethodPut, fmt.Sprintf("/products/%d", created.Id), map[string]any{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	suite.Run("incomplete create payload is rejected", func() {
		resp := suite.makeRequest(http.MethodPost, "/products", map[string]any{
			"name": "Pen",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}

func (suite *ApiTestSuite) TestHealth() {
	t := suite.T()

	for path, expected := range map[string]string{
		"/health":       "All",
		"/health/db":    "PostgresSQL",
		"/health/redis": "REDIS",
	} {
		resp := suite.makeRequest(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]string](t, resp)
		assert.Equal(t, "OK", body["status"])
		assert.Equal(t, expected, body["service"])
	}
}
