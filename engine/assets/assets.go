package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/exp/maps"

	"github.com/spaghettifunk/lava/engine/assets/loaders"
	"github.com/spaghettifunk/lava/engine/containers"
	"github.com/spaghettifunk/lava/engine/core"
	"github.com/spaghettifunk/lava/engine/renderer/metadata"
)

const reloadQueueSize = 256

// ShaderConfigPath maps a shader config name to its indexed asset path.
func ShaderConfigPath(name string) string {
	return fmt.Sprintf("assets/shaders/%s.shadercfg", name)
}

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

/**
 * @brief Indexes shader binding configs under an asset directory and
 * watches them for changes. A modified config lands on the reload
 * queue; the renderer drains it once per frame and re-registers the
 * affected pipeline's shape.
 */
type AssetManager struct {
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	reloads  *containers.RingQueue[string]
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		fsnotify: fsWatch,
		reloads:  containers.NewRingQueue[string](reloadQueueSize),
		done:     make(chan struct{}),
	}, nil
}

func (am *AssetManager) Initialize(assetsDir string) error {
	go am.start()

	if err := am.addRecursive(assetsDir); err != nil {
		return err
	}

	// Register loaders
	am.registerLoader(metadata.ResourceTypeShaderBindings, &loaders.ShaderBindingsLoader{})

	return nil
}

func (am *AssetManager) Shutdown() {
	if am.isClosed {
		return
	}
	am.isClosed = true
	close(am.done)
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return errors.New("asset watcher instance already closed")
	}
	return am.watchRecursive(name, false)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// LoadShaderBindings loads the named shader binding config and resolves
// it into the per-stage reflection records the binding core consumes.
func (am *AssetManager) LoadShaderBindings(name string) ([]metadata.ReflectedStageBindings, error) {
	resource, err := am.LoadAsset(name, metadata.ResourceTypeShaderBindings, nil)
	if err != nil {
		return nil, err
	}
	stages, ok := resource.Data.([]metadata.ReflectedStageBindings)
	if !ok {
		return nil, fmt.Errorf("asset %s did not resolve to shader bindings", name)
	}
	return stages, nil
}

// Load an asset using the appropriate loader
func (am *AssetManager) LoadAsset(filename string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	var path string
	switch resourceType {
	case metadata.ResourceTypeShaderBindings:
		path = ShaderConfigPath(filename)
	default:
		return nil, fmt.Errorf("unknown resource type")
	}

	am.mutex.RLock()
	asset, exists := am.assets[path]
	am.mutex.RUnlock()
	if !exists {
		return nil, fmt.Errorf("asset not found: %s", path)
	}

	loader, loaderExists := am.loaders[asset.Type]
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %d", asset.Type)
	}

	asset.LastLoaded = time.Now()
	am.mutex.Lock()
	am.assets[path] = asset
	am.mutex.Unlock()

	return loader.Load(path, resourceType, params)
}

// WatchedAssets lists the indexed asset paths.
func (am *AssetManager) WatchedAssets() []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return maps.Keys(am.assets)
}

// PendingReloads drains the queue of asset paths modified since the
// last call. Intended to be called once per frame.
func (am *AssetManager) PendingReloads() []string {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	var changed []string
	for !am.reloads.IsEmpty() {
		path, err := am.reloads.Dequeue()
		if err != nil {
			break
		}
		changed = append(changed, path)
	}
	return changed
}

func (am *AssetManager) start() {
	for {
		select {

		case e := <-am.fsnotify.Events:
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					am.watchRecursive(e.Name, false)
				}
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			// Can't stat a deleted path, so just try to remove it from
			// both the index and the watch list.
			if e.Op&fsnotify.Remove != 0 {
				am.removeAsset(e.Name)
				am.fsnotify.Remove(e.Name)
			}

		case e := <-am.fsnotify.Errors:
			core.LogError(e.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	wd = wd + "/" // add trailing slash
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				if err = am.fsnotify.Remove(walkPath); err != nil {
					return err
				}
			} else {
				if err = am.fsnotify.Add(walkPath); err != nil {
					return err
				}
			}
		} else {
			p := strings.TrimPrefix(walkPath, wd)
			am.handleFileEvent(p)
		}
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return
	}

	if _, known := am.assets[path]; known {
		if err := am.reloads.Enqueue(path); err != nil {
			core.LogWarn("asset reload queue full, dropping %s", path)
		}
	}
	am.assets[path] = AssetInfo{
		Path:       path,
		Type:       assetType,
		LastLoaded: time.Now(),
	}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
}

func determineAssetType(path string) metadata.ResourceType {
	switch filepath.Ext(path) {
	case ".shadercfg":
		return metadata.ResourceTypeShaderBindings
	default:
		return metadata.ResourceTypeNone
	}
}
