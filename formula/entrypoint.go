package formula

// entryPointContents is loaded by consumers through cmake_build_modules. It
// reads the flags baked into Corrade/configure.h and patches up the imported
// targets.
const entryPointContents = `message(STATUS "Corrade Conan Directory: ${CMAKE_CURRENT_LIST_DIR}")
set(CORRADE_INCLUDE_DIR "${CMAKE_CURRENT_LIST_DIR}/../../../include")
set(CORRADE_MODULE_DIR "${CMAKE_CURRENT_LIST_DIR}")

message(STATUS "Corrade include: ${CORRADE_INCLUDE_DIR}")
message(STATUS "Corrade module: ${CORRADE_MODULE_DIR}")

# Configuration file
find_file(_CORRADE_CONFIGURE_FILE configure.h
    HINTS ${CORRADE_INCLUDE_DIR}/Corrade/)

# Read flags from configuration
file(READ ${_CORRADE_CONFIGURE_FILE} _corradeConfigure)
string(REGEX REPLACE ";" "\\\;" _corradeConfigure "${_corradeConfigure}")
string(REGEX REPLACE "\n" ";" _corradeConfigure "${_corradeConfigure}")
set(_corradeFlags
    MSVC2015_COMPATIBILITY
    MSVC2017_COMPATIBILITY
    MSVC_COMPATIBILITY
    BUILD_DEPRECATED
    BUILD_STATIC
    BUILD_STATIC_UNIQUE_GLOBALS
    BUILD_MULTITHREADED
    BUILD_CPU_RUNTIME_DISPATCH
    TARGET_UNIX
    TARGET_APPLE
    TARGET_IOS
    TARGET_IOS_SIMULATOR
    TARGET_WINDOWS
    TARGET_WINDOWS_RT
    TARGET_EMSCRIPTEN
    TARGET_ANDROID
    CPU_USE_IFUNC
    PLUGINMANAGER_NO_DYNAMIC_PLUGIN_SUPPORT
    TESTSUITE_TARGET_XCTEST
    UTILITY_USE_ANSI_COLORS)
foreach(_corradeFlag ${_corradeFlags})
    list(FIND _corradeConfigure "#define CORRADE_${_corradeFlag}" _corrade_${_corradeFlag})
    if(NOT _corrade_${_corradeFlag} EQUAL -1)
        set(CORRADE_${_corradeFlag} 1)
    endif()
endforeach()

set(CORRADE_USE_MODULE ${CORRADE_MODULE_DIR}/UseCorrade.cmake)
set(CORRADE_LIB_SUFFIX_MODULE ${CORRADE_MODULE_DIR}/CorradeLibSuffix.cmake)

# find corrade-rc
if (NOT TARGET Corrade::rc)
  add_executable(Corrade::rc IMPORTED)
endif()

find_program(CORRADE_rc_EXECUTABLE corrade-rc HINTS ${CMAKE_CURRENT_LIST_DIR}/../../../bin)

if(CORRADE_rc_EXECUTABLE)
    set_property(TARGET Corrade::rc PROPERTY
        IMPORTED_LOCATION ${CORRADE_rc_EXECUTABLE})
endif()

# Interconnect: /OPT:ICF merges functions with identical contents and breaks
# signal comparison
if(CORRADE_TARGET_WINDOWS AND CMAKE_CXX_COMPILER_ID STREQUAL "MSVC")
    if(CMAKE_VERSION VERSION_LESS 3.13)
        set_property(TARGET Corrade::Interconnect PROPERTY
            INTERFACE_LINK_LIBRARIES "-OPT:NOICF,REF")
    else()
        set_property(TARGET Corrade::Interconnect PROPERTY
            INTERFACE_LINK_OPTIONS "/OPT:NOICF,REF")
    endif()
endif()

# Utility: top-level include directory
set_property(TARGET Corrade::Utility APPEND PROPERTY
    INTERFACE_INCLUDE_DIRECTORIES ${CORRADE_INCLUDE_DIR})

# Require (at least) C++11 for users
set_property(TARGET Corrade::Utility PROPERTY
    INTERFACE_CORRADE_CXX_STANDARD 11)
set_property(TARGET Corrade::Utility APPEND PROPERTY
    COMPATIBLE_INTERFACE_NUMBER_MAX CORRADE_CXX_STANDARD)

# Path::libraryLocation() needs this
if(CORRADE_TARGET_UNIX)
    set_property(TARGET Corrade::Utility APPEND PROPERTY
        INTERFACE_LINK_LIBRARIES ${CMAKE_DL_LIBS})
endif()
# AndroidLogStreamBuffer class needs to be linked to log library
if(CORRADE_TARGET_ANDROID)
    set_property(TARGET Corrade::Utility APPEND PROPERTY
        INTERFACE_LINK_LIBRARIES "log")
endif()
`
