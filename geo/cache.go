package geo

import (
	"fmt"

	"github.com/gondgesagar/Web-scrapper-alert/storage"
	"github.com/gondgesagar/Web-scrapper-alert/utils"
)

// PincodeCache holds the two persisted geo artifacts: the pincode→in-region
// verdict map and the pre-fetched set of region-member pincodes. Once a
// pincode is classified the verdict is permanent truth; there is no expiry
// and no re-query.
type PincodeCache struct {
	cachePath string
	setPath   string
	logger    *utils.Logger

	verdicts map[string]bool
	members  map[string]struct{}
	dirty    bool
}

// NewPincodeCache creates a cache backed by the two given JSON file paths.
func NewPincodeCache(cachePath, setPath string, logger *utils.Logger) *PincodeCache {
	return &PincodeCache{
		cachePath: cachePath,
		setPath:   setPath,
		logger:    logger,
		verdicts:  map[string]bool{},
		members:   map[string]struct{}{},
	}
}

// Load reads both artifacts. Missing or unreadable files leave the
// corresponding part empty; loading never fails the run.
func (c *PincodeCache) Load() {
	var verdicts map[string]bool
	if err := storage.ReadJSON(c.cachePath, &verdicts); err == nil && verdicts != nil {
		c.verdicts = verdicts
	} else if err != nil {
		c.logger.Debug("[geo] No pincode cache at %s (%v), starting empty", c.cachePath, err)
	}

	var members []string
	if err := storage.ReadJSON(c.setPath, &members); err == nil {
		for _, p := range members {
			c.members[p] = struct{}{}
		}
	} else {
		c.logger.Debug("[geo] No region pincode set at %s (%v)", c.setPath, err)
	}
}

// Save persists both artifacts atomically. Called once, at end of run.
func (c *PincodeCache) Save() error {
	if err := storage.WriteJSONAtomic(c.cachePath, c.verdicts); err != nil {
		return fmt.Errorf("geo: save pincode cache: %w", err)
	}
	members := make([]string, 0, len(c.members))
	for p := range c.members {
		members = append(members, p)
	}
	if err := storage.WriteJSONAtomic(c.setPath, members); err != nil {
		return fmt.Errorf("geo: save region pincode set: %w", err)
	}
	return nil
}

// Verdict returns the cached classification for a pincode, if any.
func (c *PincodeCache) Verdict(pincode string) (bool, bool) {
	v, ok := c.verdicts[pincode]
	return v, ok
}

// PutVerdict records a classification permanently, positive or negative.
func (c *PincodeCache) PutVerdict(pincode string, inRegion bool) {
	c.verdicts[pincode] = inRegion
	c.dirty = true
}

// IsMember reports membership in the pre-fetched region pincode set.
func (c *PincodeCache) IsMember(pincode string) bool {
	_, ok := c.members[pincode]
	return ok
}

// SetMembers replaces the pre-fetched set (after a bulk fetch).
func (c *PincodeCache) SetMembers(pincodes []string) {
	c.members = make(map[string]struct{}, len(pincodes))
	for _, p := range pincodes {
		c.members[p] = struct{}{}
	}
	c.dirty = true
}

// HasMembers reports whether the pre-fetched set is populated.
func (c *PincodeCache) HasMembers() bool {
	return len(c.members) > 0
}
