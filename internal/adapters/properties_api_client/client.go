package properties_api_client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/contracts"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

// Client ходит в upstream listings API. Доменные критерии он переводит
// в wire-параметры upstream (имена у них свои), ответы нормализует в
// доменные сущности. Полигон upstream не понимает — его ядро
// дофильтровывает локально.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, apiSecret string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// doRequest - внутренний хелпер для выполнения запросов
func (c *Client) doRequest(ctx context.Context, method, requestURL string, body io.Reader) (*http.Response, error) {
	// 1. Извлекаем trace_id из контекста
	traceID := contextkeys.TraceIDFromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// 2. Устанавливаем заголовок для трассировки
	if traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("x-api-secret", c.apiSecret)
	}

	return c.httpClient.Do(req)
}

// buildQuery переводит доменные критерии в параметры upstream.
// Имена не совпадают с нашими query-ключами: upstream ждет subtype
// вместо type, town вместо location, beds вместо bedrooms.
func buildQuery(criteria domain.FilterCriteria, limit int) url.Values {
	q := url.Values{}

	// Явный список id перекрывает остальные фасеты.
	if criteria.HasExplicitIDs() {
		q.Set("ids", strings.Join(criteria.IDs, ","))
		q.Set("page", strconv.Itoa(criteria.Page))
		if limit > 0 {
			q.Set("limit", strconv.Itoa(limit))
		}
		return q
	}

	if criteria.Market != "" {
		q.Set("market", denormalizeMarket(criteria.Market))
	}
	if criteria.Market == domain.MarketRent && criteria.RentType != "" {
		q.Set("rentType", criteria.RentType)
	}
	if criteria.Search != "" {
		q.Set("search", criteria.Search)
	}
	if len(criteria.Types) > 0 {
		q.Set("subtype", strings.Join(criteria.Types, ","))
	}
	if len(criteria.Bedrooms) > 0 {
		q.Set("beds", strings.Join(encodeBeds(criteria.Bedrooms), ","))
		q.Set("beds_exact", "true")
	}
	if criteria.Baths != nil {
		q.Set("baths", strconv.Itoa(*criteria.Baths))
	}
	if len(criteria.Amenities) > 0 {
		q.Set("amenities", strings.Join(criteria.Amenities, ","))
	}
	for _, town := range criteria.Locations {
		q.Add("town", town)
	}
	if criteria.PriceMin != nil {
		q.Set("priceMin", strconv.FormatFloat(*criteria.PriceMin, 'f', -1, 64))
	}
	if criteria.PriceMax != nil {
		q.Set("priceMax", strconv.FormatFloat(*criteria.PriceMax, 'f', -1, 64))
	}
	if criteria.SizeMin != nil {
		q.Set("sizeMin", strconv.FormatFloat(*criteria.SizeMin, 'f', -1, 64))
	}
	if criteria.SizeMax != nil {
		q.Set("sizeMax", strconv.FormatFloat(*criteria.SizeMax, 'f', -1, 64))
	}
	if criteria.Sort != "" {
		q.Set("sort", criteria.Sort)
	}

	q.Set("page", strconv.Itoa(criteria.Page))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

// encodeBeds переводит значения селектора спален в числа upstream:
// "studio" -> 0, открытый бакет "6+" -> 6.
func encodeBeds(bedrooms []string) []string {
	out := make([]string, 0, len(bedrooms))
	for _, b := range bedrooms {
		if b == domain.BedroomsStudio {
			out = append(out, "0")
			continue
		}
		out = append(out, strings.TrimSuffix(b, "+"))
	}
	return out
}

func (c *Client) FindProperties(ctx context.Context, criteria domain.FilterCriteria, limit int) (*domain.PaginatedProperties, error) {
	// 1. Извлекаем и обогащаем логгер
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "PropertiesApiClient",
		"method":    "FindProperties",
	})

	requestURL := fmt.Sprintf("%s/api/properties?%s", c.baseURL, buildQuery(criteria, limit).Encode())
	clientLogger.Debug("Sending request to listings API", port.Fields{"url": requestURL})

	resp, err := c.doRequest(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		clientLogger.Error("Failed to perform request to listings API", err, nil)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("listings API returned non-success status code %d: %s", resp.StatusCode, string(bodyBytes))
		clientLogger.Error("Received error response from listings API", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	var page paginatedResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		clientLogger.Error("Failed to decode response from listings API", err, nil)
		return nil, err
	}

	clientLogger.Info("Successfully received and decoded response", port.Fields{"items_count": len(page.Data)})

	// Маппим DTO ответа в нашу доменную модель
	// Это важный шаг, который изолирует наше ядро от деталей API другого сервиса.
	items := make([]domain.Property, len(page.Data))
	for i, dto := range page.Data {
		items[i] = dto.toDomain()
	}

	return &domain.PaginatedProperties{
		Items:        items,
		TotalCount:   page.TotalItems,
		CurrentPage:  page.CurrentPage,
		TotalPages:   page.TotalPages,
		ItemsPerPage: limit,
	}, nil
}

func (c *Client) GetPropertyByID(ctx context.Context, id string) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "PropertiesApiClient",
		"method":    "GetPropertyByID",
	})

	requestURL := fmt.Sprintf("%s/api/properties/%s", c.baseURL, url.PathEscape(id))
	clientLogger.Debug("Sending request to listings API", port.Fields{"url": requestURL})

	resp, err := c.doRequest(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		clientLogger.Error("Failed to perform request to listings API", err, nil)
		return nil, err
	}
	defer resp.Body.Close()

	// Отсутствие объекта — не ошибка транспорта.
	if resp.StatusCode == http.StatusNotFound {
		clientLogger.Debug("Property not found in listings API", port.Fields{"property_id": id})
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("listings API returned non-success status code %d: %s", resp.StatusCode, string(bodyBytes))
		clientLogger.Error("Received error response from listings API", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	var dto propertyDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		clientLogger.Error("Failed to decode response from listings API", err, nil)
		return nil, err
	}

	property := dto.toDomain()
	return &property, nil
}

func (c *Client) FindForMap(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "PropertiesApiClient",
		"method":    "FindForMap",
	})

	requestURL := fmt.Sprintf("%s/api/properties/map?%s", c.baseURL, buildQuery(criteria, 0).Encode())
	clientLogger.Debug("Sending request to listings API", port.Fields{"url": requestURL})

	resp, err := c.doRequest(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		clientLogger.Error("Failed to perform request to listings API", err, nil)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("listings API returned non-success status code %d: %s", resp.StatusCode, string(bodyBytes))
		clientLogger.Error("Received error response from listings API", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	var payload mapResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		clientLogger.Error("Failed to decode response from listings API", err, nil)
		return nil, err
	}

	// Map-проекция приходит сырыми элементами: каждый прогоняем через
	// схему контракта, битые пропускаем, а не роняем весь ответ.
	result := make([]domain.Property, 0, len(payload.Data))
	skipped := 0
	for _, raw := range payload.Data {
		if err := contracts.ValidateMapProperty(raw); err != nil {
			clientLogger.Warn("Skipping map entry that violates contract", port.Fields{"validation_error": err.Error()})
			skipped++
			continue
		}
		var dto propertyDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			clientLogger.Warn("Skipping undecodable map entry", port.Fields{"decode_error": err.Error()})
			skipped++
			continue
		}
		result = append(result, dto.toDomain())
	}

	clientLogger.Info("Successfully received and decoded response", port.Fields{
		"items_count":   len(result),
		"skipped_count": skipped,
	})

	return result, nil
}

func (c *Client) GetFacetOptions(ctx context.Context) (*domain.FacetOptions, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "PropertiesApiClient",
		"method":    "GetFacetOptions",
	})

	locations, err := c.fetchSettingsList(ctx, clientLogger, "locations")
	if err != nil {
		return nil, err
	}
	amenities, err := c.fetchSettingsList(ctx, clientLogger, "amenities")
	if err != nil {
		return nil, err
	}

	clientLogger.Info("Successfully received facet options", port.Fields{
		"locations_count": len(locations),
		"amenities_count": len(amenities),
	})

	return &domain.FacetOptions{
		Locations: locations,
		Amenities: amenities,
	}, nil
}

// fetchSettingsList читает один справочник /api/settings/{name}.
// Upstream отдает либо массив строк, либо массив объектов с полем name.
func (c *Client) fetchSettingsList(ctx context.Context, clientLogger port.LoggerPort, name string) ([]string, error) {
	requestURL := fmt.Sprintf("%s/api/settings/%s", c.baseURL, name)
	clientLogger.Debug("Sending request to listings API", port.Fields{"url": requestURL})

	resp, err := c.doRequest(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		clientLogger.Error("Failed to perform request to listings API", err, nil)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("listings API returned non-success status code %d: %s", resp.StatusCode, string(bodyBytes))
		clientLogger.Error("Received error response from listings API", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	var entries []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		clientLogger.Error("Failed to decode response from listings API", err, nil)
		return nil, err
	}

	result := make([]string, 0, len(entries))
	for _, raw := range entries {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" {
				result = append(result, s)
			}
			continue
		}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil && obj.Name != "" {
			result = append(result, obj.Name)
		}
	}
	return result, nil
}

func (c *Client) GetNews(ctx context.Context) ([]domain.NewsArticle, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "PropertiesApiClient",
		"method":    "GetNews",
	})

	requestURL := fmt.Sprintf("%s/api/news", c.baseURL)
	clientLogger.Debug("Sending request to listings API", port.Fields{"url": requestURL})

	resp, err := c.doRequest(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		clientLogger.Error("Failed to perform request to listings API", err, nil)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("listings API returned non-success status code %d: %s", resp.StatusCode, string(bodyBytes))
		clientLogger.Error("Received error response from listings API", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	var articles []newsDTO
	if err := json.NewDecoder(resp.Body).Decode(&articles); err != nil {
		clientLogger.Error("Failed to decode response from listings API", err, nil)
		return nil, err
	}

	clientLogger.Info("Successfully received and decoded response", port.Fields{"articles_count": len(articles)})

	result := make([]domain.NewsArticle, len(articles))
	for i, dto := range articles {
		result[i] = dto.toDomain()
	}
	return result, nil
}

func (c *Client) GetNewsByID(ctx context.Context, id string) (*domain.NewsArticle, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "PropertiesApiClient",
		"method":    "GetNewsByID",
	})

	requestURL := fmt.Sprintf("%s/api/news/%s", c.baseURL, url.PathEscape(id))
	clientLogger.Debug("Sending request to listings API", port.Fields{"url": requestURL})

	resp, err := c.doRequest(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		clientLogger.Error("Failed to perform request to listings API", err, nil)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("listings API returned non-success status code %d: %s", resp.StatusCode, string(bodyBytes))
		clientLogger.Error("Received error response from listings API", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	var dto newsDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		clientLogger.Error("Failed to decode response from listings API", err, nil)
		return nil, err
	}

	article := dto.toDomain()
	return &article, nil
}
