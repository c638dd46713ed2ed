package config

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ProfilesChangedChannel returns the Redis PubSub channel that carries
// profile mutation events between instances.
func (r *CacheKeyStruct) ProfilesChangedChannel() string {
	return "profiles:changed"
}

var CacheKey = NewCacheKeyStruct()
