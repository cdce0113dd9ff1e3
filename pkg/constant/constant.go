package constant

// Message types
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeAudio = "audio"
)

// IsValidMessageType checks if t is a supported message type
func IsValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeAudio:
		return true
	default:
		return false
	}
}

// Online status
const (
	StatusOffline = 0
	StatusOnline  = 1
)

// Platform Ids
const (
	PlatformIdUnknown = 0
	PlatformIdIOS     = 1
	PlatformIdAndroid = 2
	PlatformIdWeb     = 3
)

// PlatformIdToName converts platform Id to name
func PlatformIdToName(platformId int) string {
	switch platformId {
	case PlatformIdIOS:
		return "iOS"
	case PlatformIdAndroid:
		return "Android"
	case PlatformIdWeb:
		return "Web"
	default:
		return "Unknown"
	}
}

// MaxMessagePageSize caps the number of messages returned per list call
const MaxMessagePageSize = 100

// Redis key patterns (without prefix, use RedisKey*() to get full key)
const (
	redisKeyToken  = "token:%s:%d" // token:{user_id}:{platform_id}
	redisKeyOnline = "online:%s"   // online:{user_id}
)

// redisKeyPrefix is the global prefix for all Redis keys
var redisKeyPrefix = "dancloud:"

// InitRedisKeyPrefix initializes the Redis key prefix from config
func InitRedisKeyPrefix(prefix string) {
	if prefix != "" {
		redisKeyPrefix = prefix
	}
}

// GetRedisKeyPrefix returns the current Redis key prefix
func GetRedisKeyPrefix() string {
	return redisKeyPrefix
}

// Redis key getters with prefix
func RedisKeyToken() string  { return redisKeyPrefix + redisKeyToken }
func RedisKeyOnline() string { return redisKeyPrefix + redisKeyOnline }
