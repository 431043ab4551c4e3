package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/decker502/diplomacy-playback/pkg/app"
	"github.com/decker502/diplomacy-playback/pkg/config"
	"github.com/decker502/diplomacy-playback/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	// 命令行参数
	verbose    = flag.Bool("verbose", false, "显示详细日志")
	gameFile   = flag.String("game", "", "启动时加载的对局 JSON 文件")
	configPath = flag.String("config", "", "回放配置 YAML（默认使用内置配置）")
	boardPath  = flag.String("board", "", "地图配置 YAML（默认使用内置地图）")
	speedMs    = flag.Int("speed", 0, "阶段推进延迟（毫秒），0 表示使用已保存的设置")
	streaming  = flag.Bool("streaming", false, "直播模式：加载内置对局后自动开始播放")
	debug      = flag.Bool("debug", false, "调试模式：没有 --game 时加载内置默认对局")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	application, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		GameFile:   *gameFile,
		ConfigPath: *configPath,
		BoardPath:  *boardPath,
		SpeedMs:    *speedMs,
		Streaming:  *streaming,
		Debug:      *debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "启动失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Diplomacy Playback")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(application)

	// 退出时保存设置（无论是否出错）
	application.GetSceneManager().SaveOnExit()

	if runErr != nil && runErr != ebiten.Termination {
		fmt.Fprintf(os.Stderr, "运行错误: %v\n", runErr)
		os.Exit(1)
	}
}
