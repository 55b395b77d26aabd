package leveldata

import (
	"os"
	"testing"
	"testing/fstest"
)

const testTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="10" height="8" tilewidth="100" tileheight="100" infinite="0">
 <objectgroup id="1" name="Platforms">
  <object id="1" x="0" y="0" width="1000" height="800">
   <properties>
    <property name="top" type="float" value="25"/>
   </properties>
  </object>
  <object id="2" x="0" y="0" width="0" height="100"/>
 </objectgroup>
 <objectgroup id="2" name="PlayerSpawn">
  <object id="3" x="700" y="100">
   <properties>
    <property name="spawnIndex" type="int" value="1"/>
    <property name="yaw" type="float" value="90"/>
   </properties>
   <point/>
  </object>
  <object id="4" x="300" y="100">
   <properties>
    <property name="spawnIndex" type="int" value="1"/>
   </properties>
   <point/>
  </object>
  <object id="5" x="900" y="400">
   <properties>
    <property name="spawnIndex" type="int" value="0"/>
    <property name="z" type="float" value="25"/>
   </properties>
   <point/>
  </object>
 </objectgroup>
 <objectgroup id="3" name="Hazards">
  <object id="6" name="KillHeight" x="0" y="0" width="1000" height="800">
   <properties>
    <property name="z" type="float" value="-750"/>
   </properties>
  </object>
 </objectgroup>
</map>
`

func TestLoadArenaData(t *testing.T) {
	fsys := fstest.MapFS{"levels/test.tmx": {Data: []byte(testTMX)}}

	data, err := LoadArenaData(fsys, "levels/test.tmx")
	if err != nil {
		t.Fatalf("LoadArenaData: %v", err)
	}

	if data.MapWidth != 1000 || data.MapHeight != 800 {
		t.Errorf("map size = %dx%d, want 1000x800", data.MapWidth, data.MapHeight)
	}
	if len(data.Platforms) != 1 {
		t.Fatalf("got %d platforms, want 1 (degenerate rects skipped)", len(data.Platforms))
	}
	if p := data.Platforms[0]; p.W != 1000 || p.H != 800 || p.Top != 25 {
		t.Errorf("platform = %+v", p)
	}

	if len(data.SpawnPoints) != 3 {
		t.Fatalf("got %d spawn points, want 3", len(data.SpawnPoints))
	}
	// Ordered by index, then by X.
	wantX := []float64{900, 300, 700}
	for i, sp := range data.SpawnPoints {
		if sp.X != wantX[i] {
			t.Errorf("spawn %d at x=%v, want %v", i, sp.X, wantX[i])
		}
	}
	if data.SpawnPoints[0].Z != 25 {
		t.Errorf("spawn 0 z = %v, want 25", data.SpawnPoints[0].Z)
	}
	if data.SpawnPoints[2].Yaw != 90 {
		t.Errorf("spawn 2 yaw = %v, want 90", data.SpawnPoints[2].Yaw)
	}

	if !data.HasKillZ || data.KillZ != -750 {
		t.Errorf("kill height = %v (set %v), want -750", data.KillZ, data.HasKillZ)
	}
}

func TestLoadArenaDataMissingFile(t *testing.T) {
	if _, err := LoadArenaData(fstest.MapFS{}, "nope.tmx"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadAllLevels(t *testing.T) {
	fsys := fstest.MapFS{
		"levels/b.tmx":     {Data: []byte(testTMX)},
		"levels/a.tmx":     {Data: []byte(testTMX)},
		"levels/notes.txt": {Data: []byte("ignored")},
	}

	levels, names, err := LoadAllLevels(fsys, "levels")
	if err != nil {
		t.Fatalf("LoadAllLevels: %v", err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("names = %v, want [a b]", names)
	}
	if levels["a"] == nil || levels["b"] == nil {
		t.Error("missing level data")
	}

	if _, _, err := LoadAllLevels(fstest.MapFS{}, "levels"); err == nil {
		t.Error("expected an error for an empty directory")
	}
}

func TestShippedArena(t *testing.T) {
	data, err := LoadArenaData(os.DirFS("../../assets/levels"), "arena.tmx")
	if err != nil {
		t.Fatalf("load arena: %v", err)
	}
	if len(data.SpawnPoints) < 8 {
		t.Errorf("arena has %d spawn points, want at least 8", len(data.SpawnPoints))
	}
	if !data.HasKillZ {
		t.Error("arena should define a kill height")
	}
	for i, sp := range data.SpawnPoints {
		if sp.Index != i {
			t.Errorf("spawn %d has index %d", i, sp.Index)
		}
	}
}

func TestLevelName(t *testing.T) {
	if got := LevelName("assets/levels/arena.tmx"); got != "arena" {
		t.Errorf("LevelName = %q", got)
	}
}
