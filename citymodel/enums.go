// Package citymodel holds the shared data model of spec §3 — everything
// but the pure geometry primitives, which live in geomutil to avoid an
// import cycle between this package and the generation stage packages.
// The name echoes original_source's own CityModel namespace.
package citymodel

// RoadType is the fixed closed set of road classes. M_Major/M_Minor are
// user-authored classes.
type RoadType string

const (
	Highway    RoadType = "Highway"
	Arterial   RoadType = "Arterial"
	Avenue     RoadType = "Avenue"
	Boulevard  RoadType = "Boulevard"
	Street     RoadType = "Street"
	Lane       RoadType = "Lane"
	Alleyway   RoadType = "Alleyway"
	CulDeSac   RoadType = "CulDeSac"
	Drive      RoadType = "Drive"
	Driveway   RoadType = "Driveway"
	MMajor     RoadType = "M_Major"
	MMinor     RoadType = "M_Minor"
)

// RoadTypeOrder is the fixed generation order of spec §4.5 (user classes are
// not generated, only consumed when supplied via UserPlacedInputs).
var RoadTypeOrder = []RoadType{
	Highway, Arterial, Avenue, Boulevard, Street, Lane, Alleyway, CulDeSac, Drive, Driveway,
}

// MajorGroup is the set of classes whose budget counts against
// max_major_roads (spec §4.5).
var MajorGroup = map[RoadType]bool{
	Highway: true, Arterial: true, Avenue: true, Boulevard: true,
}

// IsMinor reports whether t is one of the "minor" classes used by the site
// placer's demotion rule (spec §4.12).
func (t RoadType) IsMinor() bool {
	switch t {
	case Lane, Alleyway, CulDeSac, Drive, Driveway:
		return true
	default:
		return false
	}
}

// Key returns the snake_case JSON key for the road type (spec §6).
func (t RoadType) Key() string {
	switch t {
	case Highway:
		return "highway"
	case Arterial:
		return "arterial"
	case Avenue:
		return "avenue"
	case Boulevard:
		return "boulevard"
	case Street:
		return "street"
	case Lane:
		return "lane"
	case Alleyway:
		return "alleyway"
	case CulDeSac:
		return "cul_de_sac"
	case Drive:
		return "drive"
	case Driveway:
		return "driveway"
	case MMajor:
		return "m_major"
	case MMinor:
		return "m_minor"
	default:
		return "unknown"
	}
}

// DistrictType is the closed set of district types.
type DistrictType string

const (
	Mixed      DistrictType = "Mixed"
	Residential DistrictType = "Residential"
	Commercial DistrictType = "Commercial"
	Civic      DistrictType = "Civic"
	Industrial DistrictType = "Industrial"
)

// DistrictTypes lists all district types in the fixed evaluation order used
// by the type-selection score vector (spec §4.8 step 8).
var DistrictTypes = []DistrictType{Mixed, Residential, Commercial, Civic, Industrial}

// Key returns the snake_case JSON key for the district type (spec §6).
func (d DistrictType) Key() string {
	switch d {
	case Mixed:
		return "mixed"
	case Residential:
		return "residential"
	case Commercial:
		return "commercial"
	case Civic:
		return "civic"
	case Industrial:
		return "industrial"
	default:
		return "mixed"
	}
}

// LotType is the closed set of lot typologies.
type LotType string

const (
	LotResidential         LotType = "Residential"
	LotRowhomeCompact      LotType = "RowhomeCompact"
	LotRetailStrip         LotType = "RetailStrip"
	LotMixedUse            LotType = "MixedUse"
	LotLogisticsIndustrial LotType = "LogisticsIndustrial"
	LotCivicCultural       LotType = "CivicCultural"
	LotLuxuryScenic        LotType = "LuxuryScenic"
	LotBufferStrip         LotType = "BufferStrip"
	LotNone                LotType = "None"
)

// LotTypes lists the 8 scored lot types in the fixed gate-check order used
// by the classifier (spec §4.11); LotNone is not a candidate type.
var LotTypes = []LotType{
	LotLogisticsIndustrial, LotRetailStrip, LotMixedUse, LotCivicCultural,
	LotResidential, LotLuxuryScenic, LotRowhomeCompact, LotBufferStrip,
}

// Key returns the snake_case JSON key for the lot type (spec §6).
func (l LotType) Key() string {
	switch l {
	case LotResidential:
		return "residential"
	case LotRowhomeCompact:
		return "rowhome_compact"
	case LotRetailStrip:
		return "retail_strip"
	case LotMixedUse:
		return "mixed_use"
	case LotLogisticsIndustrial:
		return "logistics_industrial"
	case LotCivicCultural:
		return "civic_cultural"
	case LotLuxuryScenic:
		return "luxury_scenic"
	case LotBufferStrip:
		return "buffer_strip"
	default:
		return "none"
	}
}

// BuildingType is the closed set of building types, mirroring LotType plus
// Utility.
type BuildingType string

const (
	BuildingResidential BuildingType = "Residential"
	BuildingRowhome     BuildingType = "Rowhome"
	BuildingRetail      BuildingType = "Retail"
	BuildingMixedUse    BuildingType = "MixedUse"
	BuildingIndustrial  BuildingType = "Industrial"
	BuildingCivic       BuildingType = "Civic"
	BuildingLuxury      BuildingType = "Luxury"
	BuildingUtility     BuildingType = "Utility"
	BuildingNone        BuildingType = "None"
)

// Key returns the snake_case JSON key for the building type (spec §6).
func (b BuildingType) Key() string {
	switch b {
	case BuildingResidential:
		return "residential"
	case BuildingRowhome:
		return "rowhome"
	case BuildingRetail:
		return "retail"
	case BuildingMixedUse:
		return "mixed_use"
	case BuildingIndustrial:
		return "industrial"
	case BuildingCivic:
		return "civic"
	case BuildingLuxury:
		return "luxury"
	case BuildingUtility:
		return "utility"
	default:
		return "none"
	}
}

// AxiomType is the closed set of designer-marker shapes.
type AxiomType string

const (
	AxiomRadial         AxiomType = "Radial"
	AxiomDelta          AxiomType = "Delta"
	AxiomBlock          AxiomType = "Block"
	AxiomGridCorrective AxiomType = "GridCorrective"
)

// AxiomWeight is the power-diagram weight per axiom type (spec §4.8 step 2).
var AxiomWeight = map[AxiomType]float64{
	AxiomRadial:         1.00,
	AxiomDelta:          0.95,
	AxiomBlock:          0.90,
	AxiomGridCorrective: 0.75,
}

// Influencer is the closed set of district-desirability influencers an
// axiom may carry.
type Influencer string

const (
	InfluencerNone   Influencer = "None"
	InfluencerMarket Influencer = "Market"
	InfluencerKeep   Influencer = "Keep"
	InfluencerTemple Influencer = "Temple"
	InfluencerHarbor Influencer = "Harbor"
	InfluencerPark   Influencer = "Park"
	InfluencerGate   Influencer = "Gate"
	InfluencerWell   Influencer = "Well"
)
