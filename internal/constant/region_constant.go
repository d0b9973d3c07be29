package constant

import "urbanmind-be/internal/entity"

// Data source categories.
const (
	DataCategoryDemographics   = "demographics"
	DataCategoryInfrastructure = "infrastructure"
	DataCategoryLandUse        = "land_use"
	DataCategoryEnvironmental  = "environmental"
)

// WaterlooRegionProfile returns the planning context of the high school
// site-selection task. The profile is display data only.
func WaterlooRegionProfile() entity.RegionProfile {
	return entity.RegionProfile{
		Region: "Waterloo Region, Ontario, Canada",
		Task:   "High School Site Selection",
		Constraints: entity.SiteConstraints{
			MinimumParcelSize:   "10 hectares",
			ZoningRequirements:  []string{"Institutional", "Community Facility"},
			MaxDistanceTransit:  "400 meters",
			MaxDistanceArterial: "800 meters",
			Exclusions:          []string{"Environmental Sensitive Areas", "Flood Zones", "Heavy Industrial"},
		},
		DataSources: []entity.DataSource{
			{Category: DataCategoryDemographics, Name: "census_2021", URL: "https://www12.statcan.gc.ca/census-recensement/2021/dp-pd/prof/details/page.cfm"},
			{Category: DataCategoryDemographics, Name: "population_forecasts", URL: "https://www.regionofwaterloo.ca/en/regional-government/population.aspx"},
			{Category: DataCategoryInfrastructure, Name: "existing_schools", URL: "https://www.wrdsb.ca/our-schools/schools/"},
			{Category: DataCategoryInfrastructure, Name: "transit_routes", URL: "https://www.grt.ca/en/about-grt/open-data.aspx"},
			{Category: DataCategoryInfrastructure, Name: "road_networks", URL: "https://rowopendata-rmw.opendata.arcgis.com/"},
			{Category: DataCategoryLandUse, Name: "zoning_waterloo", URL: "https://www.waterloo.ca/en/government/maps-and-open-data.aspx"},
			{Category: DataCategoryLandUse, Name: "zoning_kitchener", URL: "https://www.kitchener.ca/en/council-and-city-administration/open-data.aspx"},
			{Category: DataCategoryLandUse, Name: "zoning_cambridge", URL: "https://www.cambridge.ca/en/your-city/Open-Data.aspx"},
			{Category: DataCategoryEnvironmental, Name: "protected_lands", URL: "https://rowopendata-rmw.opendata.arcgis.com/"},
			{Category: DataCategoryEnvironmental, Name: "flood_zones", URL: "https://www.grandriver.ca/en/our-watershed/flood-information.aspx"},
		},
	}
}
