package leveldata

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"
)

// Layer and object group names recognised in arena TMX files.
const (
	FloorLayer       = "floor"
	PlatformsGroup   = "Platforms"
	SpawnGroup       = "PlayerSpawn"
	HazardsGroup     = "Hazards"
	KillHeightObject = "KillHeight"
	propTop          = "top"
	propZ            = "z"
	propYaw          = "yaw"
	propSpawnIndex   = "spawnIndex"
)

// LoadArenaData parses a TMX file and returns platforms, spawn points and the
// kill height. It takes an fs.FS so callers can pass embed.FS or os.DirFS.
func LoadArenaData(fsys fs.FS, tmxPath string) (*ArenaData, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	data := &ArenaData{
		MapWidth:  levelMap.Width * levelMap.TileWidth,
		MapHeight: levelMap.Height * levelMap.TileHeight,
	}

	// Floor tiles: each non-empty tile is a slab whose top defaults to 0
	tileW := float64(levelMap.TileWidth)
	tileH := float64(levelMap.TileHeight)
	for _, layer := range levelMap.Layers {
		if layer.Name != FloorLayer {
			continue
		}
		for y := 0; y < levelMap.Height; y++ {
			for x := 0; x < levelMap.Width; x++ {
				tile := layer.Tiles[y*levelMap.Width+x]
				if tile.IsNil() {
					continue
				}

				var top float64
				if tilesetTile, err := tile.Tileset.GetTilesetTile(tile.ID); err == nil {
					top = tilesetTile.Properties.GetFloat(propTop)
				}

				data.Platforms = append(data.Platforms, Platform{
					X:   float64(x) * tileW,
					Y:   float64(y) * tileH,
					W:   tileW,
					H:   tileH,
					Top: top,
				})
			}
		}
		break
	}

	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case PlatformsGroup:
			for _, o := range og.Objects {
				if o.Width <= 0 || o.Height <= 0 {
					continue
				}
				data.Platforms = append(data.Platforms, Platform{
					X:   o.X,
					Y:   o.Y,
					W:   o.Width,
					H:   o.Height,
					Top: o.Properties.GetFloat(propTop),
				})
			}
		case SpawnGroup:
			for _, o := range og.Objects {
				data.SpawnPoints = append(data.SpawnPoints, SpawnPoint{
					X:     o.X,
					Y:     o.Y,
					Z:     o.Properties.GetFloat(propZ),
					Yaw:   o.Properties.GetFloat(propYaw),
					Index: o.Properties.GetInt(propSpawnIndex),
				})
			}
		case HazardsGroup:
			for _, o := range og.Objects {
				if o.Name != KillHeightObject {
					continue
				}
				data.KillZ = o.Properties.GetFloat(propZ)
				data.HasKillZ = true
			}
		}
	}

	// Sort spawns by index, then left-to-right, for stable ordering
	sort.SliceStable(data.SpawnPoints, func(i, j int) bool {
		a, b := data.SpawnPoints[i], data.SpawnPoints[j]
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.X < b.X
	})

	return data, nil
}

// LoadAllLevels discovers all .tmx files in levelsDir within fsys, loads arena
// data for each, and returns a map keyed by stem name plus a sorted list of names.
func LoadAllLevels(fsys fs.FS, levelsDir string) (map[string]*ArenaData, []string, error) {
	pattern := levelsDir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", levelsDir)
	}

	levels := make(map[string]*ArenaData, len(matches))
	names := make([]string, 0, len(matches))

	for _, path := range matches {
		data, err := LoadArenaData(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		stem := LevelName(path)
		levels[stem] = data
		names = append(names, stem)
	}

	sort.Strings(names)
	return levels, names, nil
}

// LevelName returns the stem of a level path ("levels/arena.tmx" -> "arena").
func LevelName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".tmx")
}
