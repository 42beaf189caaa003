package entity

// Defaults for fields omitted from a prediction request.
const (
	DefaultPropertyType  = "Apartment"
	DefaultBedrooms      = 7
	DefaultBathrooms     = 8
	DefaultArea          = 2700
	DefaultLatitude      = 25.197200775146484
	DefaultLongitude     = 55.27439880371094
	DefaultPrice2024     = 14000000
	DefaultPrice2023     = 13800000
	DefaultPrice2022     = 13600000
	DefaultPrice2021     = 13400000
	DefaultPrice2020     = 13200000
	DefaultPrice2019     = 13000000
	DefaultPrice2018     = 12800000
	DefaultPrice2017     = 12600000
	DefaultPrice2016     = 12400000
	DefaultPrice2015     = 12200000
	DefaultNeighborhood  = "Downtown Dubai"
	DefaultPredictionOut = 14200000
)

// PropertyFeatures is the input record of the price regression model.
type PropertyFeatures struct {
	Type         string  `json:"type"`
	NoBedrooms   int     `json:"no_bedrooms"`
	NoBathrooms  int     `json:"no_bathrooms"`
	Area         float64 `json:"area"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	P2024        int64   `json:"p2024"`
	P2023        int64   `json:"p2023"`
	P2022        int64   `json:"p2022"`
	P2021        int64   `json:"p2021"`
	P2020        int64   `json:"p2020"`
	P2019        int64   `json:"p2019"`
	P2018        int64   `json:"p2018"`
	P2017        int64   `json:"p2017"`
	P2016        int64   `json:"p2016"`
	P2015        int64   `json:"p2015"`
	Neighborhood string  `json:"neighborhood"`
}

// DefaultPropertyFeatures returns a record with every field set to its
// default. Request bodies are decoded on top of it.
func DefaultPropertyFeatures() PropertyFeatures {
	return PropertyFeatures{
		Type:         DefaultPropertyType,
		NoBedrooms:   DefaultBedrooms,
		NoBathrooms:  DefaultBathrooms,
		Area:         DefaultArea,
		Latitude:     DefaultLatitude,
		Longitude:    DefaultLongitude,
		P2024:        DefaultPrice2024,
		P2023:        DefaultPrice2023,
		P2022:        DefaultPrice2022,
		P2021:        DefaultPrice2021,
		P2020:        DefaultPrice2020,
		P2019:        DefaultPrice2019,
		P2018:        DefaultPrice2018,
		P2017:        DefaultPrice2017,
		P2016:        DefaultPrice2016,
		P2015:        DefaultPrice2015,
		Neighborhood: DefaultNeighborhood,
	}
}

// PriceHistory returns the yearly prices oldest first.
func (f PropertyFeatures) PriceHistory() []int64 {
	return []int64{f.P2015, f.P2016, f.P2017, f.P2018, f.P2019, f.P2020, f.P2021, f.P2022, f.P2023, f.P2024}
}

type PredictionResponse struct {
	Prediction float64 `json:"prediction"`
}
