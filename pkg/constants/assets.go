package constants

const (
	AssetStatusInStorage   = "In Storage"
	AssetStatusDeployed    = "Deployed"
	AssetStatusMaintenance = "Maintenance"
	AssetStatusRetired     = "Retired"
)

var AssetStatuses = []string{
	AssetStatusInStorage,
	AssetStatusDeployed,
	AssetStatusMaintenance,
	AssetStatusRetired,
}

var AssetTypes = []string{"Laptop", "PC", "Server", "Monitor", "Printer", "Network", "Software", "Other"}

func IsAssetStatus(s string) bool { return contains(AssetStatuses, s) }

func IsAssetType(s string) bool { return contains(AssetTypes, s) }
