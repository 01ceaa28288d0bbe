package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a physical address
// It is immutable - all operations return new Address instances
type Address struct {
	street     string
	area       string
	city       string
	province   string
	postalCode string
	country    string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithPostalCode sets the postal code for the address
func WithPostalCode(postalCode string) AddressOption {
	return func(a *Address) {
		a.postalCode = strings.TrimSpace(postalCode)
	}
}

// WithCountry sets the country for the address
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		a.country = strings.TrimSpace(country)
	}
}

// NewAddress creates a new Address with the required fields
// Street and city are required; area and province are optional
func NewAddress(street, area, city, province string, opts ...AddressOption) (Address, error) {
	street = strings.TrimSpace(street)
	area = strings.TrimSpace(area)
	city = strings.TrimSpace(city)
	province = strings.TrimSpace(province)

	if street == "" {
		return Address{}, fmt.Errorf("street cannot be empty")
	}
	if len(street) > 500 {
		return Address{}, fmt.Errorf("street cannot exceed 500 characters")
	}
	if city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}
	if len(area) > 100 {
		return Address{}, fmt.Errorf("area cannot exceed 100 characters")
	}
	if len(province) > 100 {
		return Address{}, fmt.Errorf("province cannot exceed 100 characters")
	}

	addr := Address{
		street:   street,
		area:     area,
		city:     city,
		province: province,
		country:  "Zambia", // Default country
	}

	for _, opt := range opts {
		opt(&addr)
	}

	if len(addr.postalCode) > 20 {
		return Address{}, fmt.Errorf("postal code cannot exceed 20 characters")
	}
	if len(addr.country) > 100 {
		return Address{}, fmt.Errorf("country cannot exceed 100 characters")
	}

	return addr, nil
}

// NewAddressFull creates a new Address with all fields including country
func NewAddressFull(street, area, city, province, postalCode, country string) (Address, error) {
	return NewAddress(street, area, city, province, WithPostalCode(postalCode), WithCountry(country))
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(street, area, city, province string, opts ...AddressOption) Address {
	addr, err := NewAddress(street, area, city, province, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// Street returns the street line
func (a Address) Street() string {
	return a.street
}

// Area returns the area or suburb
func (a Address) Area() string {
	return a.area
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// Province returns the province
func (a Address) Province() string {
	return a.province
}

// PostalCode returns the postal code
func (a Address) PostalCode() string {
	return a.postalCode
}

// Country returns the country
func (a Address) Country() string {
	return a.country
}

// IsEmpty returns true if the address is empty (all fields are blank)
func (a Address) IsEmpty() bool {
	return a.street == "" && a.area == "" && a.city == "" && a.province == ""
}

// FullAddress returns the complete formatted address string
// Format: Street, Area, City, Province, PostalCode, Country
func (a Address) FullAddress() string {
	if a.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, 6)
	if a.street != "" {
		parts = append(parts, a.street)
	}
	if a.area != "" {
		parts = append(parts, a.area)
	}
	if a.city != "" {
		parts = append(parts, a.city)
	}
	if a.province != "" {
		parts = append(parts, a.province)
	}
	if a.postalCode != "" {
		parts = append(parts, a.postalCode)
	}
	if a.country != "" {
		parts = append(parts, a.country)
	}
	return strings.Join(parts, ", ")
}

// ShortAddress returns a shortened address (Area + City)
func (a Address) ShortAddress() string {
	if a.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, 2)
	if a.area != "" {
		parts = append(parts, a.area)
	}
	if a.city != "" {
		parts = append(parts, a.city)
	}
	return strings.Join(parts, ", ")
}

// String returns a string representation of the address
func (a Address) String() string {
	return a.FullAddress()
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a.street == other.street &&
		a.area == other.area &&
		a.city == other.city &&
		a.province == other.province &&
		a.postalCode == other.postalCode &&
		a.country == other.country
}

// SameCity returns true if both addresses are in the same city
func (a Address) SameCity(other Address) bool {
	return a.province == other.province && a.city == other.city
}

// addressJSON is used for JSON marshaling/unmarshaling
type addressJSON struct {
	Street     string `json:"street"`
	Area       string `json:"area,omitempty"`
	City       string `json:"city"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Street:     a.street,
		Area:       a.area,
		City:       a.city,
		Province:   a.province,
		PostalCode: a.postalCode,
		Country:    a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Delegates to the
// NewAddressFull factory so validation rules are applied consistently.
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	// Allow empty addresses from JSON
	if v.Street == "" && v.Area == "" && v.City == "" && v.Province == "" {
		*a = EmptyAddress()
		return nil
	}

	addr, err := NewAddressFull(v.Street, v.Area, v.City, v.Province, v.PostalCode, v.Country)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddressFromJSON creates an Address from JSON data
func ParseAddressFromJSON(data []byte) (Address, error) {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return Address{}, fmt.Errorf("failed to parse address JSON: %w", err)
	}

	if v.Street == "" && v.Area == "" && v.City == "" && v.Province == "" {
		return EmptyAddress(), nil
	}

	return NewAddressFull(v.Street, v.Area, v.City, v.Province, v.PostalCode, v.Country)
}

// Value implements driver.Valuer for database storage
// Stores as JSON string
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = EmptyAddress()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*a = EmptyAddress()
		return nil
	}

	return json.Unmarshal(data, a)
}

// ZambianProvinces lists the provinces used for listing filters
var ZambianProvinces = []string{
	"Central", "Copperbelt", "Eastern", "Luapula", "Lusaka",
	"Muchinga", "Northern", "North-Western", "Southern", "Western",
}

// IsValidZambianProvince checks if the province is a known Zambian province
func IsValidZambianProvince(province string) bool {
	for _, p := range ZambianProvinces {
		if strings.EqualFold(p, strings.TrimSpace(province)) {
			return true
		}
	}
	return false
}
